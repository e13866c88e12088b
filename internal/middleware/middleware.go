// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request-scoped logging, CORS, panic
// recovery, New Relic tracing, Prometheus instrumentation and
// the final translation of errors into responses
package middleware
