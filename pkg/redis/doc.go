// Package redis connects to Redis with go-redis and provides a Redis-backed
// store for persistent feature overrides.
//
// Connect retries until the server answers a PING:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// OverrideStore satisfies feature.OverrideStore. Overrides are plain string
// keys, optionally scoped per subject and expired after a TTL:
//
//	store := redis.NewOverrideStoreFromConfig(client, cfg,
//		redis.WithSubject(func(ctx context.Context) string { return userID(ctx) }),
//	)
//	svc, err := feature.NewService(catalog, env, feature.WithStore(feature.StorageLocal, store))
//
// Healthcheck returns a probe suitable for readiness endpoints.
//
// Configuration is read from REDIS_* environment variables via Config.
package redis
