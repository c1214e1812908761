package commands

import (
	"errors"
	"strings"

	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/guard"
)

var (
	ErrCreateDeliveryCommandIsNotConstructed = errors.New(
		"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
	)
	ErrTrackingNumberIsRequired = errors.New("tracking number is required")
	ErrRecipientIsRequired      = errors.New("recipient is required")
	ErrAddressIsRequired        = errors.New("address is required")
)

// CreateDeliveryCommand represents a request to register a single card
// delivery entered manually by an operator.
//
// Example:
//
//	deliveryID := kernel.NewUUID()
//	actor, _ := kernel.NewActor("42", "j.smith")
//	cmd, err := NewCreateDeliveryCommand(deliveryID, "CARD-001", "Jane Roe", "12 High St", "DHL", actor, "Web")
//	if err != nil {
//	    return fmt.Errorf("invalid delivery data: %w", err)
//	}
//
//	handler := NewCreateDeliveryCommandHandler(uowFactory, ledger)
//	created, err := handler.Handle(ctx, cmd)
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID     kernel.UUID
	trackingNumber string
	recipient      string
	address        string
	courier        string
	actor          kernel.Actor
	source         string

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to register a new delivery.
// Validates that the delivery ID is valid, the actor is constructed, and
// tracking number, recipient, and address are not blank.
func NewCreateDeliveryCommand(
	deliveryID kernel.UUID,
	trackingNumber, recipient, address, courier string,
	actor kernel.Actor,
	source string,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		courier: strings.TrimSpace(courier),
		source:  source,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setTrackingNumber(trackingNumber),
		cmd.setRecipient(recipient),
		cmd.setAddress(address),
		cmd.setActor(actor),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateDeliveryCommandIsNotConstructed if validation fails.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the unique identifier for the new delivery.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// TrackingNumber returns the card tracking number.
func (c CreateDeliveryCommand) TrackingNumber() string {
	return c.trackingNumber
}

// Recipient returns the recipient name.
func (c CreateDeliveryCommand) Recipient() string {
	return c.recipient
}

// Address returns the delivery address.
func (c CreateDeliveryCommand) Address() string {
	return c.address
}

// Courier returns the courier label, possibly empty.
func (c CreateDeliveryCommand) Courier() string {
	return c.courier
}

// Actor returns the operator performing the action.
func (c CreateDeliveryCommand) Actor() kernel.Actor {
	return c.actor
}

// Source returns the channel the request arrived through, possibly empty.
func (c CreateDeliveryCommand) Source() string {
	return c.source
}

func (c *CreateDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *CreateDeliveryCommand) setTrackingNumber(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return ErrTrackingNumberIsRequired
	}

	c.trackingNumber = trackingNumber
	return nil
}

func (c *CreateDeliveryCommand) setRecipient(recipient string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return ErrRecipientIsRequired
	}

	c.recipient = recipient
	return nil
}

func (c *CreateDeliveryCommand) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrAddressIsRequired
	}

	c.address = address
	return nil
}

func (c *CreateDeliveryCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
