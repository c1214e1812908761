// Package auditrepo persists the append-only audit trail. Entries are
// written once and never updated or deleted; the table is indexed for the
// newest-first reads the trail is consumed with.
package auditrepo

import (
	"time"

	"github.com/google/uuid"

	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/kernel"
)

// AuditEntryDTO represents the database structure for one audit entry.
// The composite index on (entity_type, entity_id, timestamp) serves the
// per-entity history view; (timestamp, id) is the keyset the global trail
// pages over.
type AuditEntryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp  time.Time `gorm:"index:idx_audit_keyset,priority:1;not null"`
	ActorName  string    `gorm:"not null"`
	ActorID    string
	Action     string `gorm:"not null"`
	EntityType string `gorm:"index:idx_audit_entity,priority:1;not null"`
	EntityID   string `gorm:"index:idx_audit_entity,priority:2;not null"`
	Field      string
	OldValue   string
	NewValue   string
	Source     string
	Remarks    string
}

// TableName specifies the database table name for audit entries.
func (AuditEntryDTO) TableName() string {
	return "audit_entries"
}

func fromDomain(entry audit.Entry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:         entry.ID().Bytes(),
		Timestamp:  entry.Timestamp(),
		ActorName:  entry.ActorName(),
		ActorID:    entry.ActorID(),
		Action:     string(entry.Action()),
		EntityType: entry.EntityType(),
		EntityID:   entry.EntityID(),
		Field:      entry.Field(),
		OldValue:   entry.OldValue(),
		NewValue:   entry.NewValue(),
		Source:     entry.Source(),
		Remarks:    entry.Remarks(),
	}
}

func toDomain(dto AuditEntryDTO) (audit.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return audit.Entry{}, err
	}

	return audit.RestoreEntry(
		id,
		dto.Timestamp,
		dto.ActorName,
		dto.ActorID,
		audit.Action(dto.Action),
		dto.EntityType,
		dto.EntityID,
		dto.Field,
		dto.OldValue,
		dto.NewValue,
		dto.Source,
		dto.Remarks,
	)
}
