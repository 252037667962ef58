// Package redis connects to Redis with go-redis.
//
// Connect accepts redis:// and rediss:// URLs, retries with exponential
// backoff and returns only once the server answers PING.
//
//	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//
//	r.Get("/ready", health.Readiness[*router.Context](log, redis.Check(client)))
//	srv.OnShutdown(redis.ShutdownHook(client))
package redis
