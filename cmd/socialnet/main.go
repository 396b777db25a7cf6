package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minisocial/socialnet/internal/api"
	"github.com/minisocial/socialnet/internal/cli"
	"github.com/minisocial/socialnet/internal/core/ports"
	"github.com/minisocial/socialnet/internal/core/service"
	"github.com/minisocial/socialnet/internal/infrastructure/db/jsonfile"
	"github.com/minisocial/socialnet/internal/infrastructure/db/mongo"
	"github.com/minisocial/socialnet/internal/infrastructure/db/redis"
	"github.com/minisocial/socialnet/internal/infrastructure/db/sqlite"
	"github.com/minisocial/socialnet/internal/infrastructure/security"
	"github.com/minisocial/socialnet/internal/infrastructure/session"
	"github.com/minisocial/socialnet/internal/pkg/config"
	"github.com/minisocial/socialnet/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	ctx := context.Background()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open storage")
		fmt.Fprintln(os.Stderr, "socialnet: cannot open storage:", err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("storage close failed")
		}
	}()

	var (
		cache       ports.FeedCache
		cachePinger ports.Pinger
	)
	if cfg.Redis.Addr != "" {
		fc, err := redis.OpenFeedCache(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, FeedTTL: cfg.Redis.FeedTTL})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("feed cache unavailable, continuing without it")
		} else {
			defer fc.Close()
			cache, cachePinger = fc, fc
		}
	}

	svcLog := logger.For("service")
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	app := cli.New(cli.Deps{
		Auth:      service.NewAuthService(store.Users, store.Follows, hasher, svcLog),
		Posts:     service.NewPostService(store.Posts, store.Users, cache, svcLog),
		Feed:      service.NewFeedService(store.Posts, store.Follows, cache, svcLog),
		Directory: service.NewDirectoryService(store.Users, store.Posts, store.Follows, cache, cfg.ProfileRecentPosts, svcLog),
		Sessions:  session.NewStore(cfg.Session.File, cfg.Session.Secret, cfg.Session.TTL),
		Log:       logger.For("cli"),
	}, os.Stdin, os.Stdout)

	args := os.Args[1:]

	// The ops listener only lives as long as an interactive session.
	if cfg.MetricsAddr != "" && cli.IsShell(args) {
		srv := startOps(cfg.MetricsAddr, store.Pinger, cachePinger, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, cli.Message(err))
		if cli.IsUsage(err) {
			return 2
		}
		return 1
	}
	return 0
}

func openStorage(ctx context.Context, cfg *config.Config) (ports.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.Storage.SQLitePath)
	case config.BackendMongo:
		return mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	default:
		return jsonfile.Open(cfg.Storage.DataDir), nil
	}
}

// opsServer wraps the echo instance so main can shut it down.
type opsServer interface {
	Shutdown(ctx context.Context) error
}

func startOps(addr string, storage, cache ports.Pinger, log zerolog.Logger) opsServer {
	e := api.NewRouter(api.RouterDeps{Storage: storage, Cache: cache})
	go func() {
		log.Info().Str("addr", addr).Msg("ops listener started")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("ops listener stopped")
		}
	}()
	return e
}
