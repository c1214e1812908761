package commands

import (
	"errors"

	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/guard"
)

var (
	ErrApplyChangeCommandIsNotConstructed = errors.New(
		"ApplyChangeCommand must be created via NewApplyChangeCommand constructor",
	)
	ErrNoUpdatesProvided = errors.New("at least one field update is required")
)

// ApplyChangeCommand represents a request to mutate an existing delivery:
// a status transition, a field correction, or both in one logical change.
//
// KnownVersion carries the version the caller last read. When non-zero the
// handler rejects the change with errs.ConcurrentUpdateError if the stored
// delivery has moved on since.
//
// Example:
//
//	status := delivery.Shipped
//	updates := delivery.FieldUpdates{Status: &status}
//	cmd, err := NewApplyChangeCommand(id, updates, 3, actor, "Web", "dispatched by warehouse")
type ApplyChangeCommand struct { //nolint:recvcheck //using for validation
	deliveryID   kernel.UUID
	updates      delivery.FieldUpdates
	knownVersion int64
	actor        kernel.Actor
	source       string
	remarks      string

	guard guard.ConstructorGuard
}

// NewApplyChangeCommand creates a command to apply field updates to a delivery.
// Requires a valid delivery ID, a constructed actor, and at least one
// requested update.
func NewApplyChangeCommand(
	deliveryID kernel.UUID,
	updates delivery.FieldUpdates,
	knownVersion int64,
	actor kernel.Actor,
	source, remarks string,
) (ApplyChangeCommand, error) {
	cmd := ApplyChangeCommand{
		knownVersion: knownVersion,
		source:       source,
		remarks:      remarks,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setUpdates(updates),
		cmd.setActor(actor),
	); err != nil {
		return ApplyChangeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApplyChangeCommandIsNotConstructed if validation fails.
func (c ApplyChangeCommand) Validate() error {
	return c.guard.Validate(ErrApplyChangeCommandIsNotConstructed)
}

// DeliveryID returns the identifier of the delivery to mutate.
func (c ApplyChangeCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Updates returns the requested field updates.
func (c ApplyChangeCommand) Updates() delivery.FieldUpdates {
	return c.updates
}

// KnownVersion returns the version the caller last observed, zero when the
// caller opted out of the concurrency check.
func (c ApplyChangeCommand) KnownVersion() int64 {
	return c.knownVersion
}

// Actor returns the operator performing the change.
func (c ApplyChangeCommand) Actor() kernel.Actor {
	return c.actor
}

// Source returns the channel the request arrived through, possibly empty.
func (c ApplyChangeCommand) Source() string {
	return c.source
}

// Remarks returns the free-form note attached to the change, possibly empty.
func (c ApplyChangeCommand) Remarks() string {
	return c.remarks
}

func (c *ApplyChangeCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *ApplyChangeCommand) setUpdates(updates delivery.FieldUpdates) error {
	if updates.IsEmpty() {
		return ErrNoUpdatesProvided
	}

	c.updates = updates
	return nil
}

func (c *ApplyChangeCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
