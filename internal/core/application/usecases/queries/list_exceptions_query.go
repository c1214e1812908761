package queries

import (
	"errors"

	"cardtrack/internal/pkg/guard"
)

var ErrListExceptionsQueryIsNotConstructed = errors.New(
	"ListExceptionsQuery must be created via NewListExceptionsQuery constructor",
)

// ListExceptionsQuery retrieves deliveries stuck in an exception status
// (Failed or Delayed) for the review worklist. The most urgent deliveries
// come first: earliest expected date leads, deliveries without an expected
// date trail the list.
type ListExceptionsQuery struct {
	guard guard.ConstructorGuard
}

// NewListExceptionsQuery creates a query for the exception worklist.
func NewListExceptionsQuery() ListExceptionsQuery {
	return ListExceptionsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrListExceptionsQueryIsNotConstructed if validation fails.
func (q ListExceptionsQuery) Validate() error {
	return q.guard.Validate(ErrListExceptionsQueryIsNotConstructed)
}
