// Package handler is the HTTP entry point after the router.
//
// It binds and validates requests through the validation package, calls
// the service layer, and maps service outcomes onto status codes: a
// missing todo is a bare 404, a blank title a 400 with field errors.
package handler
