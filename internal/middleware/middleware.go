// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request IDs, request logging, CORS, New Relic tracing,
// rate limiting, and panic recovery
package middleware
