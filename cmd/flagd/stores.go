package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/flagkit/pkg/config"
	"github.com/dmitrymomot/flagkit/pkg/feature"
	"github.com/dmitrymomot/flagkit/pkg/httpserver"
	"github.com/dmitrymomot/flagkit/pkg/logger"
	"github.com/dmitrymomot/flagkit/pkg/mongo"
	"github.com/dmitrymomot/flagkit/pkg/pg"
	"github.com/dmitrymomot/flagkit/pkg/redis"
)

// localBackend is the store behind storage "local" plus its readiness checks
// and cleanup.
type localBackend struct {
	store  feature.OverrideStore
	checks []httpserver.Check
	close  func()
}

// openLocalStore connects the backend named kind. "memory" (or "") returns
// no store, so the service falls back to its in-process memory store.
func openLocalStore(ctx context.Context, kind string, subject func(context.Context) string, log *slog.Logger) (*localBackend, error) {
	noop := &localBackend{close: func() {}}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "memory":
		return noop, nil

	case "redis":
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "override store connected", logger.Storage("redis"))
		return &localBackend{
			store:  redis.NewOverrideStoreFromConfig(client, cfg, redis.WithSubject(subject)),
			checks: []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}},
			close:  func() { _ = client.Close() },
		}, nil

	case "postgres", "pg":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		log.InfoContext(ctx, "override store connected", logger.Storage("postgres"))
		return &localBackend{
			store:  pg.NewOverrideStoreFromConfig(pool, cfg, pg.WithSubject(subject)),
			checks: []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}},
			close:  pool.Close,
		}, nil

	case "mongo", "mongodb":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		coll := mongo.OverridesCollection(client, cfg)
		if err := mongo.EnsureOverrideIndexes(ctx, coll); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.InfoContext(ctx, "override store connected", logger.Storage("mongo"))
		return &localBackend{
			store:  mongo.NewOverrideStore(coll, mongo.WithSubject(subject)),
			checks: []httpserver.Check{{Name: "mongo", Fn: mongo.Healthcheck(client)}},
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown FEATURE_LOCAL_STORE %q: want memory, redis, postgres or mongo", kind)
	}
}
