// Package middleware provides the HTTP middleware used by the swagdoc
// server: panic recovery, request ID propagation, access logging, CORS
// and Cache-Control headers.
//
// Constructors return a func(http.Handler) http.Handler, so the
// middleware can be passed to explorer.Explorer.Use or wrapped around any
// handler:
//
//	e.Use(
//		middleware.RequestID(middleware.RequestIDConfig{}),
//		middleware.Logging(logger),
//		middleware.Recovery(middleware.RecoveryConfig{Logger: logger}),
//	)
package middleware
