// Package server builds the gin engine and runs the HTTP server.
//
// NewRouter installs zap access logging and panic recovery (ginzap) before
// the application's routes. Server wraps http.Server with a context-aware
// Start and a graceful Stop:
//
//	srv := server.NewServer(cfg, engine)
//	go srv.Start(ctx)
//	...
//	srv.Stop(shutdownCtx)
package server
