// Package mongo connects to MongoDB with the v2 driver and provides a
// collection-backed store for persistent feature overrides.
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	coll := mongo.OverridesCollection(client, cfg)
//	if err := mongo.EnsureOverrideIndexes(ctx, coll); err != nil {
//		return err
//	}
//	store := mongo.NewOverrideStore(coll)
//
// Each override is one document {subject, key, value, updated_at}; writes are
// upserts on (subject, key).
package mongo
