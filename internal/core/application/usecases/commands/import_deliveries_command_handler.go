package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/core/domain/services"
	"cardtrack/internal/core/ports"
	"cardtrack/internal/pkg/errs"
)

// ImportReport summarizes one bulk upload. Every data row in the file is
// accounted for by exactly one counter.
type ImportReport struct {
	TotalRows        int
	Created          int
	Updated          int
	SkippedInvalid   int
	SkippedDuplicate int
}

// Summary renders the report as the one-line remark stored in the audit
// trail for the upload.
func (r ImportReport) Summary() string {
	return fmt.Sprintf(
		"%d rows: %d created, %d updated, %d invalid, %d duplicate",
		r.TotalRows, r.Created, r.Updated, r.SkippedInvalid, r.SkippedDuplicate,
	)
}

// ImportDeliveriesCommandHandler handles bulk delivery uploads. Rows are
// streamed from the source one at a time, normalized, and either created,
// merged, or skipped. The whole batch is one transaction: a storage failure
// rolls back every row, but an invalid or duplicate row is counted and
// skipped without failing the batch.
//
// Exactly one IMPORT_DELIVERIES audit entry is written per upload, even
// when no rows survive. As with other handlers the entry is appended after
// commit and a failed append is reported as errs.AuditAppendError alongside
// the completed report.
type ImportDeliveriesCommandHandler struct {
	uowFactory DeliveryUoWFactory
	ledger     ports.AuditLedger
	normalizer services.RowNormalizer
	policy     delivery.TransitionPolicy
}

// NewImportDeliveriesCommandHandler creates a handler for bulk uploads.
func NewImportDeliveriesCommandHandler(
	uowFactory DeliveryUoWFactory,
	ledger ports.AuditLedger,
	normalizer services.RowNormalizer,
	policy delivery.TransitionPolicy,
) ImportDeliveriesCommandHandler {
	return ImportDeliveriesCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		normalizer: normalizer,
		policy:     policy,
	}
}

// Handle processes the upload. The first row from the source is the header
// row; it must contain a recognizable card number column.
func (h *ImportDeliveriesCommandHandler) Handle(
	ctx context.Context,
	cmd ImportDeliveriesCommand,
	rows ports.RowSource,
) (ImportReport, error) {
	if err := cmd.Validate(); err != nil {
		return ImportReport{}, err
	}

	header, ok, err := rows.Next()
	if err != nil {
		return ImportReport{}, err
	}
	if !ok {
		return ImportReport{}, errs.NewValueIsRequiredError("header row")
	}

	columns, err := h.normalizer.ResolveColumns(header)
	if err != nil {
		return ImportReport{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ImportReport{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	report, err := h.ingest(ctx, cmd, uow.DeliveryRepository(), columns, rows)
	if err != nil {
		return ImportReport{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ImportReport{}, err
	}

	if err = h.appendSummary(ctx, cmd, report); err != nil {
		return report, err
	}

	return report, nil
}

func (h *ImportDeliveriesCommandHandler) ingest(
	ctx context.Context,
	cmd ImportDeliveriesCommand,
	repo ports.DeliveryRepository,
	columns map[services.Field]int,
	rows ports.RowSource,
) (ImportReport, error) {
	report := ImportReport{}
	seen := make(map[string]struct{})
	now := time.Now().UTC()

	for {
		record, ok, err := rows.Next()
		if err != nil {
			return ImportReport{}, err
		}
		if !ok {
			return report, nil
		}
		report.TotalRows++

		row, err := h.normalizer.NormalizeRow(h.normalizer.CellsFromRecord(columns, record))
		if err != nil {
			report.SkippedInvalid++
			continue
		}

		if _, dup := seen[row.CardNumber]; dup {
			report.SkippedDuplicate++
			continue
		}
		seen[row.CardNumber] = struct{}{}

		if err = h.ingestRow(ctx, cmd, repo, row, now, &report); err != nil {
			return ImportReport{}, err
		}
	}
}

func (h *ImportDeliveriesCommandHandler) ingestRow(
	ctx context.Context,
	cmd ImportDeliveriesCommand,
	repo ports.DeliveryRepository,
	row services.NormalizedRow,
	now time.Time,
	report *ImportReport,
) error {
	existing, err := repo.GetByTrackingNumber(ctx, row.CardNumber)
	switch {
	case err == nil:
		return h.resolveConflict(ctx, cmd, repo, existing, row, report)
	case errors.Is(err, errs.ErrObjectNotFound):
	default:
		return err
	}

	aggregate, err := delivery.NewImportedDelivery(
		kernel.NewUUID(),
		row.CardNumber,
		row.Recipient,
		row.Address,
		row.Courier,
		row.Status,
		now,
		row.ExpectedDate,
	)
	if err != nil {
		report.SkippedInvalid++
		return nil
	}

	// A duplicate-key failure here means a concurrent import committed this
	// tracking number after the pre-check above. The violation aborts the
	// batch transaction, so the upload fails whole as a conflict; a retry
	// sees the stored row and skips it.
	if err = repo.Add(ctx, aggregate); err != nil {
		return err
	}
	report.Created++
	return nil
}

// resolveConflict applies the configured conflict mode to a row whose
// tracking number is already stored. In upsert mode a row that would make
// an illegal status transition counts as invalid rather than failing the
// batch.
func (h *ImportDeliveriesCommandHandler) resolveConflict(
	ctx context.Context,
	cmd ImportDeliveriesCommand,
	repo ports.DeliveryRepository,
	existing *delivery.Delivery,
	row services.NormalizedRow,
	report *ImportReport,
) error {
	if cmd.ConflictMode() == ConflictSkip {
		report.SkippedDuplicate++
		return nil
	}

	updates := delivery.FieldUpdates{
		Recipient: &row.Recipient,
		Address:   &row.Address,
		Status:    &row.Status,
	}
	if row.Courier != "" {
		updates.Courier = &row.Courier
	}
	if row.ExpectedDate != nil {
		updates.ExpectedDate = row.ExpectedDate
	}

	changes, err := existing.ApplyUpdates(updates, h.policy)
	if err != nil {
		report.SkippedInvalid++
		return nil
	}
	if len(changes) == 0 {
		report.SkippedDuplicate++
		return nil
	}

	if err = repo.Update(ctx, existing); err != nil {
		return err
	}
	report.Updated++
	return nil
}

func (h *ImportDeliveriesCommandHandler) appendSummary(
	ctx context.Context,
	cmd ImportDeliveriesCommand,
	report ImportReport,
) error {
	entry, err := audit.NewEntry(
		audit.ActionBulkImport,
		cmd.Actor(),
		audit.BatchEntityID,
		"",
		"",
		"",
		cmd.Source(),
		cmd.FileName()+": "+report.Summary(),
	)
	if err != nil {
		return errs.NewAuditAppendError(audit.BatchEntityID, err)
	}

	if err = h.ledger.Append(ctx, entry); err != nil {
		return errs.NewAuditAppendError(audit.BatchEntityID, err)
	}
	return nil
}
