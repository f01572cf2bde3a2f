// Package pg wires the PostgreSQL layer for the metering service: pooled
// connectivity over pgx/v5, goose/v3 schema migrations, a health-check
// closure for readiness probes, and error classifiers shared by the quota
// store.
//
// Connect retries with linear back-off so the service survives a database
// that comes up slower than the process. Migrate bridges the pgx pool to the
// database/sql interface goose expects and routes migration output through
// the application logger.
//
// Usage:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		// handle error
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		// handle error
//	}
package pg
