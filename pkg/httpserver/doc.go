// Package httpserver runs the dashboard's HTTP server with graceful
// shutdown.
//
// Run binds the listener, fires start hooks with the bound address, and
// serves until the context ends, SIGINT/SIGTERM arrives or Shutdown is
// called. Shutdown drains connections and then runs stop hooks, which is
// where long-lived clients (event streams, Redis) are closed.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(context.Context) error { return rdb.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler serves liveness and readiness probes.
package httpserver
