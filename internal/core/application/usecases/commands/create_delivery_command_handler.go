package commands

import (
	"context"
	"time"

	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/ports"
	"cardtrack/internal/pkg/errs"
)

// CreateDeliveryCommandHandler handles the business logic for manual
// delivery registration. New deliveries start in Pending status with the
// dispatch date set to the moment of creation.
//
// The audit entry is appended after the transaction commits. A failed
// append does not undo the registration: the handler returns the created
// delivery together with an errs.AuditAppendError so callers can report
// partial success.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	ledger     ports.AuditLedger
}

// NewCreateDeliveryCommandHandler creates a handler for delivery registration.
// Requires a DeliveryUoWFactory for transactional persistence and an
// AuditLedger for the audit trail.
func NewCreateDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	ledger ports.AuditLedger,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
	}
}

// Handle processes the delivery registration command.
// Persists the new delivery in its own transaction, then appends exactly
// one CREATE_DELIVERY audit entry recording the initial status.
func (h *CreateDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd CreateDeliveryCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := delivery.NewDelivery(
		cmd.DeliveryID(),
		cmd.TrackingNumber(),
		cmd.Recipient(),
		cmd.Address(),
		cmd.Courier(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	entry, err := audit.NewEntry(
		audit.ActionCreate,
		cmd.Actor(),
		aggregate.ID().String(),
		delivery.FieldStatus,
		"",
		aggregate.Status().String(),
		cmd.Source(),
		"",
	)
	if err != nil {
		return aggregate, errs.NewAuditAppendError(aggregate.ID().String(), err)
	}

	if err = h.ledger.Append(ctx, entry); err != nil {
		return aggregate, errs.NewAuditAppendError(aggregate.ID().String(), err)
	}

	return aggregate, nil
}
