// Package errs defines the error shapes the API hands to clients.
//
// Handlers and middleware return *HTTPError values; the global error
// handler turns them into a consistent JSON body (or an empty body for
// errors marked bodiless, such as a missing todo).
package errs
