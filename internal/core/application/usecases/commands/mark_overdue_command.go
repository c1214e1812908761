package commands

import (
	"errors"
	"time"

	"cardtrack/internal/pkg/guard"
)

var ErrMarkOverdueCommandIsNotConstructed = errors.New(
	"MarkOverdueCommand must be created via NewMarkOverdueCommand constructor",
)

// MarkOverdueCommand represents one run of the overdue sweep: every shipped
// delivery whose expected date lies before the cutoff is moved to Delayed.
type MarkOverdueCommand struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewMarkOverdueCommand creates a sweep command for the given cutoff,
// normally the current time.
func NewMarkOverdueCommand(cutoff time.Time) (MarkOverdueCommand, error) {
	if cutoff.IsZero() {
		return MarkOverdueCommand{}, errors.New("cutoff is required")
	}

	return MarkOverdueCommand{
		cutoff: cutoff.UTC(),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkOverdueCommandIsNotConstructed if validation fails.
func (c MarkOverdueCommand) Validate() error {
	return c.guard.Validate(ErrMarkOverdueCommandIsNotConstructed)
}

// Cutoff returns the point in time deliveries are measured against.
func (c MarkOverdueCommand) Cutoff() time.Time {
	return c.cutoff
}
