package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/rapina"
	"github.com/dmitrymomot/rapina/core/config"
	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/health"
	"github.com/dmitrymomot/rapina/core/logger"
	"github.com/dmitrymomot/rapina/core/response"
	"github.com/dmitrymomot/rapina/core/router"
	"github.com/dmitrymomot/rapina/core/server"
	"github.com/dmitrymomot/rapina/integration/database/pg"
	"github.com/dmitrymomot/rapina/integration/database/redis"
	"github.com/dmitrymomot/rapina/middleware"
)

type serveFlags struct {
	addr          string
	metricsAddr   string
	introspection bool
	postgres      bool
	redis         bool
	origins       []string
	trustID       bool
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo application",
		Long: "Runs a small user directory API on top of rapina. Configuration is read from\n" +
			"the environment (SERVER_*, LOG_LEVEL, LOG_FORMAT, APP_INTROSPECTION, PG_*, REDIS_*);\n" +
			"flags override it. The server drains and exits on SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.addr, "addr", "", "listen address (default SERVER_ADDR or :8080)")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve /metrics on a separate address instead of the main router")
	f.BoolVar(&flags.introspection, "introspection", false, "expose "+router.IntrospectionPath)
	f.BoolVar(&flags.postgres, "postgres", false, "connect to PostgreSQL using PG_CONN_URL")
	f.BoolVar(&flags.redis, "redis", false, "connect to Redis using REDIS_URL")
	f.StringSliceVar(&flags.origins, "cors-origin", nil, "allowed CORS origins (default any)")
	f.BoolVar(&flags.trustID, "trust-request-id", false, "reuse "+middleware.DefaultRequestIDHeader+" from incoming requests")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, flags serveFlags) error {
	var cfg rapina.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("introspection") {
		cfg.Introspection = flags.introspection
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(cfg.LogFormat),
		logger.WithService("rapina"),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cors := middleware.CORSPermissive()
	if len(flags.origins) > 0 {
		cors = middleware.CORSWithOrigins(flags.origins...)
	}

	var checks []health.Check
	opts := []rapina.Option{
		rapina.WithConfig(cfg),
		rapina.WithLogger(log),
		rapina.WithMetrics(reg),
		rapina.WithState(newUserStore(
			user{ID: 1, Name: "Ada"},
			user{ID: 2, Name: "Grace"},
			user{ID: 3, Name: "Linus"},
		)),
		rapina.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
		rapina.WithMiddleware(
			middleware.Recoverer[*router.Context](log),
			middleware.RequestID[*router.Context](),
			middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
				Logger: log,
				Skip:   skipProbes,
			}),
			middleware.MetricsWithConfig[*router.Context](middleware.MetricsConfig{
				Registerer: reg,
				Skip:       skipProbes,
			}),
			middleware.CORSWithConfig[*router.Context](cors),
		),
		rapina.WithRouter(registerUserRoutes),
	}

	if flags.trustID {
		opts = append(opts, rapina.WithRequestIDHeader(middleware.DefaultRequestIDHeader))
	}

	if flags.postgres {
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return err
		}
		checks = append(checks, pg.Check(pool))
		opts = append(opts, rapina.WithState(pool), rapina.OnShutdown(pg.ShutdownHook(pool)))
		log.Info("connected to postgres", logger.Component("postgres"))
	}

	if flags.redis {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		checks = append(checks, redis.Check(client))
		opts = append(opts, rapina.WithState(client), rapina.OnShutdown(redis.ShutdownHook(client)))
		log.Info("connected to redis", logger.Component("redis"))
	}

	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	opts = append(opts, rapina.WithRouter(func(r router.Router[*router.Context]) {
		r.Get("/health", health.Liveness[*router.Context])
		r.Get("/ready", health.Readiness[*router.Context](log, checks...))
		if flags.metricsAddr == "" {
			r.Get("/metrics", handler.FromHTTP[*router.Context](metricsHandler))
		}
	}))

	app, err := rapina.New(opts...)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(gctx, flags.addr)
	})

	if flags.metricsAddr != "" {
		metrics := server.New(flags.metricsAddr, server.WithLogger(log.With(logger.Component("metrics"))))
		g.Go(metrics.Run(gctx, metricsHandler))
	}

	return g.Wait()
}

func skipProbes(ctx handler.Context) bool {
	switch ctx.Request().URL.Path {
	case "/health", "/ready", "/metrics":
		return true
	}
	return false
}
