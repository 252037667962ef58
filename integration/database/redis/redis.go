package redis

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/rapina/core/health"
	"github.com/dmitrymomot/rapina/core/server"
)

// Connect parses cfg.ConnectionURL, creates a client and pings it until it
// answers, retrying with exponential backoff. The whole attempt is bounded
// by cfg.ConnectTimeout.
func Connect(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := redis.NewClient(opt)
	ping := func() error {
		return client.Ping(ctx).Err()
	}

	if err := backoff.Retry(ping, retryPolicy(ctx, cfg.RetryAttempts, cfg.RetryInterval)); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	return client, nil
}

// Healthcheck returns a ping probe for the client.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Check wraps Healthcheck for the readiness endpoint under the name "redis".
func Check(client redis.UniversalClient) health.Check {
	return health.NewCheck("redis", Healthcheck(client))
}

// ShutdownHook closes the client once the server has drained.
func ShutdownHook(client redis.UniversalClient) server.Hook {
	return server.HookFunc(func(context.Context) error {
		return client.Close()
	})
}

func retryPolicy(ctx context.Context, attempts int, interval time.Duration) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	if interval > 0 {
		b.InitialInterval = interval
	}
	b.MaxElapsedTime = 0

	retries := uint64(0)
	if attempts > 1 {
		retries = uint64(attempts - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}
