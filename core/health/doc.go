// Package health provides liveness and readiness handlers.
//
//	r.Get("/health/live", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](log,
//		health.NewCheck("postgres", pg.Healthcheck(pool)),
//		health.NewCheck("redis", redis.Healthcheck(client)),
//	))
package health
