// Package pg connects to PostgreSQL with pgx/v5, creates the overrides table
// through a goose migration and provides a table-backed store for persistent feature
// overrides.
//
// # Usage
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//		return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//
//	store := pg.NewOverrideStoreFromConfig(pool, cfg, pg.WithSubject(userID))
//
// Migrate and NewOverrideStoreFromConfig both read Config.OverridesTable
// (PG_OVERRIDES_TABLE), so a renamed table is created and queried alike.
//
// OverrideStore satisfies feature.OverrideStore. Rows are keyed by
// (subject, key); an empty subject holds global overrides.
//
// # Error Handling
//
// Store failures wrap ErrOverrideStore. IsNotFoundError, IsDuplicateKeyError
// and IsUndefinedTableError classify pgx errors.
package pg
