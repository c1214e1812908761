package audit

import (
	"fmt"
	"time"

	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/errs"
)

// Action is the kind of change an audit entry records.
// The values match the action vocabulary of the legacy system so existing
// ledger consumers keep working.
type Action string

const (
	// ActionCreate records a manual single-delivery creation.
	ActionCreate Action = "CREATE_DELIVERY"

	// ActionStatusUpdate records a change whose primary field is the status.
	ActionStatusUpdate Action = "UPDATE_STATUS"

	// ActionFieldUpdate records a change to non-status fields.
	ActionFieldUpdate Action = "UPDATE_FIELDS"

	// ActionBulkImport records one whole ingestion batch.
	ActionBulkImport Action = "IMPORT_DELIVERIES"
)

// EntityTypeDelivery is the subject entity type for delivery records.
const EntityTypeDelivery = "CardDelivery"

// BatchEntityID is the sentinel subject id for whole-batch actions.
const BatchEntityID = "BULK"

// DefaultSource is the origin channel recorded when the caller supplies none.
const DefaultSource = "Web"

// Validate checks that the action is one of the defined kinds.
func (a Action) Validate() error {
	switch a {
	case ActionCreate, ActionStatusUpdate, ActionFieldUpdate, ActionBulkImport:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a defined action kind", string(a)))
}

// Entry is an immutable record of one change. Entries are write-once: the
// ledger never updates or deletes them after creation. Field, OldValue, and
// NewValue are empty for whole-batch actions.
//
// Entry is a value object; all fields are private and exposed through
// getters so an entry cannot be mutated after construction.
type Entry struct {
	id         kernel.UUID
	timestamp  time.Time
	actorName  string
	actorID    string
	action     Action
	entityType string
	entityID   string
	field      string
	oldValue   string
	newValue   string
	source     string
	remarks    string
}

// NewEntry creates an audit entry for one logical change.
//
// The actor must be valid (operator or the System sentinel); entityID is
// required (use BatchEntityID for batch actions); field, oldValue, and
// newValue may be empty when not applicable; source defaults to
// DefaultSource when empty. The timestamp is assigned at construction.
func NewEntry(
	action Action,
	actor kernel.Actor,
	entityID string,
	field, oldValue, newValue string,
	source, remarks string,
) (Entry, error) {
	if err := action.Validate(); err != nil {
		return Entry{}, err
	}
	if err := actor.Validate(); err != nil {
		return Entry{}, err
	}
	if entityID == "" {
		return Entry{}, errs.NewValueIsRequiredError("entityID")
	}
	if source == "" {
		source = DefaultSource
	}

	return Entry{
		id:         kernel.NewUUID(),
		timestamp:  time.Now().UTC(),
		actorName:  actor.DisplayName(),
		actorID:    actor.ID(),
		action:     action,
		entityType: EntityTypeDelivery,
		entityID:   entityID,
		field:      field,
		oldValue:   oldValue,
		newValue:   newValue,
		source:     source,
		remarks:    remarks,
	}, nil
}

// RestoreEntry reconstructs an entry from persistence.
func RestoreEntry(
	id kernel.UUID,
	timestamp time.Time,
	actorName, actorID string,
	action Action,
	entityType, entityID string,
	field, oldValue, newValue string,
	source, remarks string,
) (Entry, error) {
	if err := id.Validate(); err != nil {
		return Entry{}, err
	}
	if err := action.Validate(); err != nil {
		return Entry{}, err
	}
	if entityID == "" {
		return Entry{}, errs.NewValueIsRequiredError("entityID")
	}

	return Entry{
		id:         id,
		timestamp:  timestamp,
		actorName:  actorName,
		actorID:    actorID,
		action:     action,
		entityType: entityType,
		entityID:   entityID,
		field:      field,
		oldValue:   oldValue,
		newValue:   newValue,
		source:     source,
		remarks:    remarks,
	}, nil
}

// ID returns the entry's unique identifier.
func (e Entry) ID() kernel.UUID {
	return e.id
}

// Timestamp returns when the change happened.
func (e Entry) Timestamp() time.Time {
	return e.timestamp
}

// ActorName returns the display name of the actor attributed to the change.
func (e Entry) ActorName() string {
	return e.actorName
}

// ActorID returns the actor's external identifier. Empty for the system actor.
func (e Entry) ActorID() string {
	return e.actorID
}

// Action returns the kind of change recorded.
func (e Entry) Action() Action {
	return e.action
}

// EntityType returns the subject entity type.
func (e Entry) EntityType() string {
	return e.entityType
}

// EntityID returns the subject entity id, or BatchEntityID for batch actions.
func (e Entry) EntityID() string {
	return e.entityID
}

// Field returns the primary changed field name. Empty for batch actions.
func (e Entry) Field() string {
	return e.field
}

// OldValue returns the prior value as an opaque string. Empty when not applicable.
func (e Entry) OldValue() string {
	return e.oldValue
}

// NewValue returns the new value as an opaque string. Empty when not applicable.
func (e Entry) NewValue() string {
	return e.newValue
}

// Source returns the origin channel of the change.
func (e Entry) Source() string {
	return e.source
}

// Remarks returns the free-text remark.
func (e Entry) Remarks() string {
	return e.remarks
}
