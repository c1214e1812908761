package commands

import (
	"context"
	"errors"

	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/core/ports"
	"cardtrack/internal/pkg/errs"
)

// overdueSource labels audit entries written by the scheduled sweep so they
// are distinguishable from operator changes.
const overdueSource = "Scheduler"

// MarkOverdueCommandHandler moves shipped deliveries past their expected
// date into Delayed status. Each flipped delivery is a logical change of
// its own and gets its own UPDATE_STATUS entry attributed to the system
// actor.
type MarkOverdueCommandHandler struct {
	uowFactory DeliveryUoWFactory
	ledger     ports.AuditLedger
	policy     delivery.TransitionPolicy
}

// NewMarkOverdueCommandHandler creates a handler for the overdue sweep.
func NewMarkOverdueCommandHandler(
	uowFactory DeliveryUoWFactory,
	ledger ports.AuditLedger,
	policy delivery.TransitionPolicy,
) MarkOverdueCommandHandler {
	return MarkOverdueCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		policy:     policy,
	}
}

// Handle runs one sweep and returns the number of deliveries flipped to
// Delayed. Audit appends happen after commit; append failures are joined
// into one error while the flips themselves stand.
func (h *MarkOverdueCommandHandler) Handle(ctx context.Context, cmd MarkOverdueCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DeliveryRepository()
	shipped, err := repo.GetAllShipped(ctx)
	if err != nil {
		return 0, err
	}

	delayed := delivery.Delayed
	var flipped []*delivery.Delivery
	for _, aggregate := range shipped {
		if !aggregate.IsOverdue(cmd.Cutoff()) {
			continue
		}

		if _, err = aggregate.ApplyUpdates(
			delivery.FieldUpdates{Status: &delayed},
			h.policy,
		); err != nil {
			return 0, err
		}

		if err = repo.Update(ctx, aggregate); err != nil {
			return 0, err
		}
		flipped = append(flipped, aggregate)
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	var appendErrs error
	for _, aggregate := range flipped {
		if err = h.appendEntry(ctx, aggregate); err != nil {
			appendErrs = errors.Join(appendErrs, err)
		}
	}

	return len(flipped), appendErrs
}

func (h *MarkOverdueCommandHandler) appendEntry(ctx context.Context, aggregate *delivery.Delivery) error {
	entry, err := audit.NewEntry(
		audit.ActionStatusUpdate,
		kernel.SystemActor(),
		aggregate.ID().String(),
		delivery.FieldStatus,
		delivery.Shipped.String(),
		delivery.Delayed.String(),
		overdueSource,
		"expected date passed",
	)
	if err != nil {
		return errs.NewAuditAppendError(aggregate.ID().String(), err)
	}

	if err = h.ledger.Append(ctx, entry); err != nil {
		return errs.NewAuditAppendError(aggregate.ID().String(), err)
	}
	return nil
}
