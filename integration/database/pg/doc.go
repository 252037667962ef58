// Package pg connects to PostgreSQL through a pgx connection pool.
//
// Connect retries with exponential backoff and pings before returning, so a
// nil error means the database answered. The pool plugs into the server
// lifecycle through Check for readiness and ShutdownHook for cleanup:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//
//	r.Get("/ready", health.Readiness[*router.Context](log, pg.Check(pool)))
//	srv.OnShutdown(pg.ShutdownHook(pool))
//
// IsNotFoundError, IsDuplicateKeyError, IsForeignKeyViolationError and
// IsTxClosedError classify common pgx errors.
package pg
