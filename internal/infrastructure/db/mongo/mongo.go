package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/minisocial/socialnet/internal/core/ports"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultDatabase = "socialnet"
	appName         = "socialnet"
)

// Config selects the deployment and database holding the users, posts and
// follows collections.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Database == "" {
		c.Database = defaultDatabase
	}
	return c
}

func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(cfg.Timeout)
}

// Connect dials the deployment, pings the primary and returns the client with
// the social network database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	cfg = cfg.withDefaults()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect %s: %w", cfg.Database, err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}

// Open connects, ensures indexes, and returns the three stores on db.
func Open(ctx context.Context, cfg Config) (ports.Storage, error) {
	client, db, err := Connect(ctx, cfg)
	if err != nil {
		return ports.Storage{}, err
	}

	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	follows := NewFollowRepository(db)
	for _, ensure := range []func(context.Context) error{users.EnsureIndexes, posts.EnsureIndexes, follows.EnsureIndexes} {
		if err := ensure(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return ports.Storage{}, fmt.Errorf("mongo indexes: %w", err)
		}
	}

	return ports.Storage{
		Users:   users,
		Posts:   posts,
		Follows: follows,
		Pinger:  clientPinger{client: client},
		Close:   client.Disconnect,
	}, nil
}

type clientPinger struct {
	client *mongo.Client
}

func (p clientPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}
