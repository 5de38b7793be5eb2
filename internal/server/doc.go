// Package server hosts the HTTP listener for the animal API.
//
// Routes registered through WithRoutes run behind a middleware chain:
//
//	requestID -> metrics -> panic recovery -> rate limit -> logging -> handler
//
// /health, /ready and /metrics are served outside the chain and are never
// rate limited.
//
// Run wires signal handling and graceful shutdown:
//
//	err := server.Run(ctx, cfg,
//	    server.WithLogger(logger),
//	    server.WithReadiness(store.Ready),
//	    server.WithRoutes(handler.Register),
//	)
package server
