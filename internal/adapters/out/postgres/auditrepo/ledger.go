package auditrepo

import (
	"context"

	"gorm.io/gorm"

	"cardtrack/internal/core/domain/model/audit"
)

// GormAuditLedger implements AuditLedger using GORM. The ledger is strictly
// append-only: rows are inserted and read, never updated or deleted.
type GormAuditLedger struct {
	db *gorm.DB
}

// NewGormAuditLedger creates a new GORM audit ledger.
func NewGormAuditLedger(db *gorm.DB) *GormAuditLedger {
	return &GormAuditLedger{db: db}
}

// Append inserts one audit entry.
func (l *GormAuditLedger) Append(ctx context.Context, entry audit.Entry) error {
	dto := fromDomain(entry)
	return l.db.WithContext(ctx).Create(&dto).Error
}

// Query retrieves entries matching the filter, newest first, using keyset
// pagination over (timestamp, id). Reads one row beyond the limit to learn
// whether more entries remain.
func (l *GormAuditLedger) Query(
	ctx context.Context,
	filter audit.Filter,
	page audit.Page,
) ([]audit.Entry, string, bool, error) {
	page = page.Normalize()

	tx := l.db.WithContext(ctx).Model(&AuditEntryDTO{})
	if filter.EntityType != "" {
		tx = tx.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		tx = tx.Where("entity_id = ?", filter.EntityID)
	}
	if page.Cursor != "" {
		key, err := audit.DecodeCursor(page.Cursor)
		if err != nil {
			return nil, "", false, err
		}
		tx = tx.Where("(timestamp, id) < (?, ?)", key.Timestamp, key.ID.Bytes())
	}

	var dtos []AuditEntryDTO
	if err := tx.
		Order("timestamp DESC, id DESC").
		Limit(page.Limit + 1).
		Find(&dtos).Error; err != nil {
		return nil, "", false, err
	}

	hasMore := len(dtos) > page.Limit
	if hasMore {
		dtos = dtos[:page.Limit]
	}

	entries := make([]audit.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, "", false, err
		}
		entries = append(entries, entry)
	}

	var nextCursor string
	if hasMore && len(entries) > 0 {
		last := entries[len(entries)-1]
		nextCursor = audit.EncodeCursor(audit.CursorKey{
			Timestamp: last.Timestamp(),
			ID:        last.ID(),
		})
	}

	return entries, nextCursor, hasMore, nil
}
