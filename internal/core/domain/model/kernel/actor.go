package kernel

import (
	"cardtrack/internal/pkg/errs"
)

// SystemActorName is the display name recorded for mutations performed
// without an authenticated operator, such as scheduled jobs.
const SystemActorName = "System"

// ErrActorIsNotConstructed indicates that an Actor was not created through
// NewActor or SystemActor.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("Actor must be created via NewActor or SystemActor")

// Actor is the identity attributed to a mutation for audit purposes.
// It is an opaque descriptor supplied by the authentication collaborator:
// either an operator with an external identifier and display name, or the
// "System" sentinel for unattended operations.
//
// Actor is immutable. The zero value is invalid and fails Validate.
//
// Example usage:
//
//	operator, err := kernel.NewActor("u-42", "Jo Operator")
//	if err != nil {
//	    // handle error
//	}
//
//	system := kernel.SystemActor()
//	system.IsSystem() // true
type Actor struct {
	id          string
	displayName string
	system      bool

	guard ConstructorGuard
}

// NewActor creates an actor for an authenticated operator.
// The display name is required; the external identifier may be empty when
// the authentication collaborator does not expose one.
func NewActor(id, displayName string) (Actor, error) {
	if displayName == "" {
		return Actor{}, errs.NewValueIsRequiredError("displayName")
	}

	return Actor{
		id:          id,
		displayName: displayName,
		guard:       NewConstructorGuard(),
	}, nil
}

// SystemActor returns the sentinel actor used for unattended mutations.
func SystemActor() Actor {
	return Actor{
		displayName: SystemActorName,
		system:      true,
		guard:       NewConstructorGuard(),
	}
}

// ID returns the actor's external identifier. Empty for the system actor.
func (a Actor) ID() string {
	return a.id
}

// DisplayName returns the name recorded in audit entries.
func (a Actor) DisplayName() string {
	return a.displayName
}

// IsSystem reports whether this is the unattended "System" sentinel.
func (a Actor) IsSystem() bool {
	return a.system
}

// Validate checks that the actor was created through a constructor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}
