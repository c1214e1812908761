package ports

import (
	"context"

	"cardtrack/internal/core/domain/model/audit"
)

// AuditLedger defines the persistence contract for the append-only audit
// trail. Entries are immutable once appended; the ledger exposes no update
// or delete operations.
//
// The ledger lives outside the UnitOfWork transaction: a delivery write
// that already committed must survive a failed audit append. Callers
// translate append failures into errs.AuditAppendError.
type AuditLedger interface {
	// Append persists a new audit entry. Entries are never modified
	// after this call.
	Append(ctx context.Context, entry audit.Entry) error

	// Query retrieves entries matching the filter, newest first,
	// starting after the page cursor. Returns the entries, the cursor
	// for the next page, and whether more entries remain.
	Query(ctx context.Context, filter audit.Filter, page audit.Page) ([]audit.Entry, string, bool, error)
}
