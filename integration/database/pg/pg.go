package pg

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/rapina/core/health"
	"github.com/dmitrymomot/rapina/core/server"
)

// Connect creates a connection pool and verifies it with a ping, retrying
// with exponential backoff up to cfg.RetryAttempts times.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 && cfg.MaxIdleConns <= poolConfig.MaxConns {
		poolConfig.MinConns = cfg.MaxIdleConns
	}
	if cfg.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	var pool *pgxpool.Pool
	connect := func() error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	}

	if err := backoff.Retry(connect, retryPolicy(ctx, cfg.RetryAttempts, cfg.RetryInterval)); err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}

	return pool, nil
}

// Healthcheck returns a ping probe for the pool.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Check wraps Healthcheck for the readiness endpoint under the name "postgres".
func Check(pool *pgxpool.Pool) health.Check {
	return health.NewCheck("postgres", Healthcheck(pool))
}

// ShutdownHook closes the pool once the server has drained.
func ShutdownHook(pool *pgxpool.Pool) server.Hook {
	return server.HookFunc(func(context.Context) error {
		pool.Close()
		return nil
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
