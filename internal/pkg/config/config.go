package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=warn"`

	// MetricsAddr enables the ops listener (/health, /metrics) when non-empty.
	MetricsAddr string `env:"METRICS_ADDR"`

	// ProfileRecentPosts bounds the posts shown on a profile.
	ProfileRecentPosts int `env:"PROFILE_RECENT_POSTS, default=5"`

	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
}

type StorageConfig struct {
	Backend    string `env:"STORAGE_BACKEND, default=jsonfile"`
	DataDir    string `env:"DATA_DIR,        default=Data"`
	SQLitePath string `env:"SQLITE_PATH,     default=Data/socialnet.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=socialnet"`
}

// RedisConfig configures the feed cache. An empty Addr disables it.
type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR"`
	DB      int           `env:"REDIS_DB,       default=0"`
	FeedTTL time.Duration `env:"FEED_CACHE_TTL, default=10m"`
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET"`
	File   string        `env:"SESSION_FILE, default=.socialnet_session"`
	TTL    time.Duration `env:"SESSION_TTL,  default=24h"`
}

// IsDevelopment reports whether human-friendly log output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSONFile, BackendSQLite, BackendMongo:
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.ProfileRecentPosts <= 0 {
		return fmt.Errorf("config: PROFILE_RECENT_POSTS must be positive, got %d", c.ProfileRecentPosts)
	}
	return nil
}

// Load reads an optional .env file and then the process environment using
// go-envconfig.
func Load() *Config {
	_ = godotenv.Load() // .env is optional
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith processes configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
