// Package middleware stores the global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request logging, tracing, CORS, rate limiting, panic
// recovery and the final translation of errors into responses.
package middleware
