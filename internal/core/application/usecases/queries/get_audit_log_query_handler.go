package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/kernel"
)

// GetAuditLogQueryHandler reads the audit trail newest-first with keyset
// pagination over (timestamp, id). Keyset beats OFFSET here: the trail is
// append-only and hot pages are always near the head.
type GetAuditLogQueryHandler struct {
	db *gorm.DB
}

// NewGetAuditLogQueryHandler creates a handler for audit trail queries.
func NewGetAuditLogQueryHandler(db *gorm.DB) GetAuditLogQueryHandler {
	return GetAuditLogQueryHandler{db: db}
}

// Handle executes the query and returns one page of the trail. The handler
// reads one row beyond the limit to learn whether more entries remain.
func (h GetAuditLogQueryHandler) Handle(
	ctx context.Context,
	query GetAuditLogQuery,
) (AuditLogPage, error) {
	if err := query.Validate(); err != nil {
		return AuditLogPage{}, err
	}

	sql := `
		SELECT
			id,
			timestamp,
			actor_name,
			actor_id,
			action,
			entity_type,
			entity_id,
			field,
			old_value,
			new_value,
			source,
			remarks
		FROM audit_entries
		WHERE 1=1
	`
	var args []any

	filter := query.Filter()
	if filter.EntityType != "" {
		sql += " AND entity_type = ?"
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != "" {
		sql += " AND entity_id = ?"
		args = append(args, filter.EntityID)
	}

	page := query.Page()
	if page.Cursor != "" {
		key, err := audit.DecodeCursor(page.Cursor)
		if err != nil {
			return AuditLogPage{}, err
		}
		sql += " AND (timestamp, id) < (?, ?)"
		args = append(args, key.Timestamp, key.ID.String())
	}

	sql += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, page.Limit+1)

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return AuditLogPage{}, err
	}
	defer rows.Close()

	entries := make([]AuditEntryResponse, 0, page.Limit)
	for rows.Next() {
		var resp AuditEntryResponse
		var id uuid.UUID

		if err = rows.Scan(
			&id,
			&resp.Timestamp,
			&resp.ActorName,
			&resp.ActorID,
			&resp.Action,
			&resp.EntityType,
			&resp.EntityID,
			&resp.Field,
			&resp.OldValue,
			&resp.NewValue,
			&resp.Source,
			&resp.Remarks,
		); err != nil {
			return AuditLogPage{}, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return AuditLogPage{}, idErr
		}
		resp.ID = entryID
		entries = append(entries, resp)
	}

	if err = rows.Err(); err != nil {
		return AuditLogPage{}, err
	}

	result := AuditLogPage{Entries: entries}
	if len(entries) > page.Limit {
		result.Entries = entries[:page.Limit]
		result.HasMore = true

		last := result.Entries[len(result.Entries)-1]
		result.NextCursor = audit.EncodeCursor(audit.CursorKey{
			Timestamp: last.Timestamp,
			ID:        last.ID,
		})
	}

	return result, nil
}
