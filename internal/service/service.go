// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated data from the handler, applies the todo rules (blank
// titles are rejected, id and createdOn never change after create)
// and calls repository methods to persist the result.
package service
