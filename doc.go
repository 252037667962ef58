// Package rapina wires the router, application state, middleware and the
// graceful shutdown coordinator into a single App.
//
//	app, err := rapina.New(
//		rapina.WithState(db),
//		rapina.WithMiddleware(
//			middleware.Recoverer[*router.Context](log),
//			middleware.RequestID[*router.Context](),
//		),
//		rapina.WithRouter(func(r router.Router[*router.Context]) {
//			r.Get("/users/:id", getUser, router.Name("get_user"))
//		}),
//		rapina.WithIntrospection(true),
//		rapina.OnShutdown(pg.ShutdownHook(db)),
//	)
//	if err != nil {
//		return err
//	}
//	return app.Listen(ctx, ":8080")
//
// Listen returns nil after a graceful shutdown triggered by SIGINT, SIGTERM
// or cancellation of ctx. Configuration comes from the environment
// (APP_INTROSPECTION, LOG_LEVEL, LOG_FORMAT and the SERVER_* variables);
// options override it.
package rapina
