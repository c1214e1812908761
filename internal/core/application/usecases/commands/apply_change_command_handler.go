package commands

import (
	"context"

	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/ports"
	"cardtrack/internal/pkg/errs"
)

// ApplyChangeCommandHandler handles delivery mutations. It computes the
// field-level diff against the stored aggregate, enforces the status
// transition policy, and records exactly one audit entry per logical
// change.
//
// A request whose diff turns out empty is a no-op: no write, no version
// bump, no audit entry. The audit entry is appended after commit; a failed
// append returns the updated delivery together with an
// errs.AuditAppendError so callers can report partial success.
type ApplyChangeCommandHandler struct {
	uowFactory DeliveryUoWFactory
	ledger     ports.AuditLedger
	policy     delivery.TransitionPolicy
}

// NewApplyChangeCommandHandler creates a handler for delivery mutations.
// The transition policy decides which status moves are legal; pass
// delivery.DefaultTransitionPolicy() unless configured otherwise.
func NewApplyChangeCommandHandler(
	uowFactory DeliveryUoWFactory,
	ledger ports.AuditLedger,
	policy delivery.TransitionPolicy,
) ApplyChangeCommandHandler {
	return ApplyChangeCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		policy:     policy,
	}
}

// Handle processes the change command and returns the delivery as stored
// after the call. The returned delivery is valid even when the error is an
// errs.AuditAppendError.
func (h *ApplyChangeCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyChangeCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DeliveryRepository()
	aggregate, err := repo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}

	if v := cmd.KnownVersion(); v != 0 && v != aggregate.Version() {
		return nil, errs.NewConcurrentUpdateError("delivery", aggregate.ID().String())
	}

	changes, err := aggregate.ApplyUpdates(cmd.Updates(), h.policy)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return aggregate, nil
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if err = h.appendEntry(ctx, cmd, aggregate, changes); err != nil {
		return aggregate, err
	}

	return aggregate, nil
}

// appendEntry records the change in the audit ledger. The primary change
// names the entry: a status move is recorded as UPDATE_STATUS, anything
// else as UPDATE_FIELDS, with the remaining fields listed in remarks.
func (h *ApplyChangeCommandHandler) appendEntry(
	ctx context.Context,
	cmd ApplyChangeCommand,
	aggregate *delivery.Delivery,
	changes []delivery.FieldChange,
) error {
	primary, _ := delivery.PrimaryChange(changes)

	action := audit.ActionFieldUpdate
	if primary.Field == delivery.FieldStatus {
		action = audit.ActionStatusUpdate
	}

	remarks := cmd.Remarks()
	if extra := secondaryFields(changes, primary); extra != "" {
		if remarks != "" {
			remarks += "; "
		}
		remarks += "also changed: " + extra
	}

	entry, err := audit.NewEntry(
		action,
		cmd.Actor(),
		aggregate.ID().String(),
		primary.Field,
		primary.OldValue,
		primary.NewValue,
		cmd.Source(),
		remarks,
	)
	if err != nil {
		return errs.NewAuditAppendError(aggregate.ID().String(), err)
	}

	if err = h.ledger.Append(ctx, entry); err != nil {
		return errs.NewAuditAppendError(aggregate.ID().String(), err)
	}
	return nil
}

func secondaryFields(changes []delivery.FieldChange, primary delivery.FieldChange) string {
	var extra string
	for _, change := range changes {
		if change.Field == primary.Field {
			continue
		}
		if extra != "" {
			extra += ", "
		}
		extra += change.Field
	}
	return extra
}
