package queries

import (
	"errors"
	"time"

	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/guard"
)

var ErrGetAuditLogQueryIsNotConstructed = errors.New(
	"GetAuditLogQuery must be created via NewGetAuditLogQuery constructor",
)

// GetAuditLogQuery retrieves a page of the audit trail, newest entry first.
// The filter narrows the trail to one entity; an empty filter returns the
// whole trail. Pagination is cursor-based: pass the cursor returned by the
// previous page to continue where it left off.
//
// Example:
//
//	query, _ := NewGetAuditLogQuery(audit.Filter{EntityID: id}, audit.Page{Limit: 50})
//	handler := NewGetAuditLogQueryHandler(db)
//
//	page, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to read audit log: %w", err)
//	}
//	if page.HasMore {
//	    // request the next page with page.NextCursor
//	}
type GetAuditLogQuery struct { //nolint:recvcheck //using for validation
	filter audit.Filter
	page   audit.Page

	guard guard.ConstructorGuard
}

// NewGetAuditLogQuery creates a query for one page of the audit trail.
// The page is normalized: a missing limit becomes the default, an oversized
// one is clamped. A malformed cursor is rejected here rather than at read
// time.
func NewGetAuditLogQuery(filter audit.Filter, page audit.Page) (GetAuditLogQuery, error) {
	page = page.Normalize()
	if page.Cursor != "" {
		if _, err := audit.DecodeCursor(page.Cursor); err != nil {
			return GetAuditLogQuery{}, err
		}
	}

	return GetAuditLogQuery{
		filter: filter,
		page:   page,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAuditLogQueryIsNotConstructed if validation fails.
func (q GetAuditLogQuery) Validate() error {
	return q.guard.Validate(ErrGetAuditLogQueryIsNotConstructed)
}

// Filter returns the entity filter, possibly empty.
func (q GetAuditLogQuery) Filter() audit.Filter {
	return q.filter
}

// Page returns the normalized page request.
func (q GetAuditLogQuery) Page() audit.Page {
	return q.page
}

// AuditEntryResponse is the read model for one audit trail entry.
type AuditEntryResponse struct {
	ID         kernel.UUID
	Timestamp  time.Time
	ActorName  string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Field      string
	OldValue   string
	NewValue   string
	Source     string
	Remarks    string
}

// AuditLogPage is one page of the audit trail plus the continuation state.
type AuditLogPage struct {
	Entries    []AuditEntryResponse
	NextCursor string
	HasMore    bool
}
