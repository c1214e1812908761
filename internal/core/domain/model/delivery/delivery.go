package delivery

import (
	"errors"
	"strings"
	"time"

	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/errs"
)

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not created
	// through one of the factory functions. This ensures all deliveries are properly validated.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery, NewImportedDelivery, or RestoreDelivery")
)

// Audit field names recorded with field-level changes.
const (
	FieldTrackingNumber = "trackingNumber"
	FieldRecipient      = "recipient"
	FieldAddress        = "address"
	FieldCourier        = "courier"
	FieldStatus         = "status"
	FieldDispatchDate   = "dispatchDate"
	FieldExpectedDate   = "expectedDate"
	FieldNotes          = "notes"
)

// dateLayout is the representation used for date values in audit entries.
const dateLayout = "2006-01-02"

// Delivery represents one physical card shipment. It is the aggregate root
// that manages the delivery lifecycle from creation through status changes
// to a terminal state.
//
// Delivery follows these invariants:
//   - Must have a valid unique identifier and a non-empty tracking number
//   - Recipient and address are always present
//   - Status is one of the five canonical values
//   - UpdatedAt is never earlier than CreatedAt
//   - Every mutation bumps the optimistic concurrency version
//   - Can only be created through its factory functions
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods.
type Delivery struct {
	// id is the system-assigned unique identifier
	id kernel.UUID

	// trackingNumber is the externally unique card/tracking identifier
	trackingNumber string

	// recipient is the name of the person receiving the card
	recipient string

	// address is the delivery destination
	address string

	// courier is the vendor/courier label
	courier string

	// dispatchDate is when the card left the vendor
	dispatchDate time.Time

	// expectedDate is the optional target delivery date
	expectedDate *time.Time

	// status is the current canonical lifecycle state
	status Status

	// notes carries free-text remarks and exception reasons
	notes string

	createdAt time.Time
	updatedAt time.Time

	// version is the optimistic concurrency counter compared-and-swapped on update
	version int64

	// isConstructed ensures the delivery was created via a factory function
	isConstructed bool
}

// NewDelivery creates a manually entered delivery in Pending status.
// Tracking number, recipient, and address are required; the courier label
// defaults to "-" when empty, matching operator expectations for uploads
// that omit it.
func NewDelivery(
	id kernel.UUID,
	trackingNumber, recipient, address, courier string,
	dispatchDate time.Time,
) (*Delivery, error) {
	now := time.Now().UTC()
	d := &Delivery{
		status:        Pending,
		dispatchDate:  dispatchDate,
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setTrackingNumber(trackingNumber),
		d.setRecipient(recipient),
		d.setAddress(address),
	); err != nil {
		return nil, err
	}

	d.courier = defaultCourier(courier)
	return d, nil
}

// NewImportedDelivery creates a delivery from a normalized upload row.
// Unlike manual entry, the initial status comes from the row's normalized
// vocabulary and may be any canonical value; the expected date is optional.
func NewImportedDelivery(
	id kernel.UUID,
	trackingNumber, recipient, address, courier string,
	status Status,
	dispatchDate time.Time,
	expectedDate *time.Time,
) (*Delivery, error) {
	d, err := NewDelivery(id, trackingNumber, recipient, address, courier, dispatchDate)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	d.status = status
	if expectedDate != nil {
		date := expectedDate.UTC()
		d.expectedDate = &date
	}
	return d, nil
}

// RestoreDelivery reconstructs a delivery from persistence. All invariants
// are re-validated so corrupted rows surface as errors instead of invalid
// aggregates.
func RestoreDelivery(
	id kernel.UUID,
	trackingNumber, recipient, address, courier string,
	dispatchDate time.Time,
	expectedDate *time.Time,
	status Status,
	notes string,
	createdAt, updatedAt time.Time,
	version int64,
) (*Delivery, error) {
	d := &Delivery{
		dispatchDate:  dispatchDate,
		expectedDate:  expectedDate,
		notes:         notes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setTrackingNumber(trackingNumber),
		d.setRecipient(recipient),
		d.setAddress(address),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if updatedAt.Before(createdAt) {
		return nil, errs.NewValueIsInvalidError("updatedAt")
	}

	d.courier = defaultCourier(courier)
	d.status = status
	return d, nil
}

// Validate ensures the Delivery instance was properly constructed through a factory.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// IsEqual compares two deliveries by their unique identifiers.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// TrackingNumber returns the externally unique card/tracking identifier.
func (d *Delivery) TrackingNumber() string {
	return d.trackingNumber
}

// Recipient returns the recipient name.
func (d *Delivery) Recipient() string {
	return d.recipient
}

// Address returns the delivery destination.
func (d *Delivery) Address() string {
	return d.address
}

// Courier returns the vendor/courier label.
func (d *Delivery) Courier() string {
	return d.courier
}

// DispatchDate returns when the card left the vendor.
func (d *Delivery) DispatchDate() time.Time {
	return d.dispatchDate
}

// ExpectedDate returns the optional target delivery date.
// Returns nil when no expected date is recorded.
func (d *Delivery) ExpectedDate() *time.Time {
	return d.expectedDate
}

// Status returns the current canonical lifecycle state.
func (d *Delivery) Status() Status {
	return d.status
}

// Notes returns the free-text remarks.
func (d *Delivery) Notes() string {
	return d.notes
}

// CreatedAt returns the creation timestamp.
func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns the last-updated timestamp.
func (d *Delivery) UpdatedAt() time.Time {
	return d.updatedAt
}

// Version returns the optimistic concurrency counter.
func (d *Delivery) Version() int64 {
	return d.version
}

// IsOverdue reports whether a non-terminal delivery has passed its expected
// date. Deliveries without an expected date are never overdue.
func (d *Delivery) IsOverdue(now time.Time) bool {
	if d.expectedDate == nil {
		return false
	}
	if d.status == Delivered || d.status.IsException() {
		return false
	}
	return now.After(*d.expectedDate)
}

// FieldUpdates carries the requested field-level changes for one logical
// mutation. Nil pointers mean "leave unchanged"; ClearExpectedDate removes
// the expected date when set.
type FieldUpdates struct {
	TrackingNumber *string
	Recipient      *string
	Address        *string
	Courier        *string
	Status         *Status
	DispatchDate   *time.Time
	ExpectedDate   *time.Time
	Notes          *string

	ClearExpectedDate bool
}

// IsEmpty reports whether the update requests no changes at all.
func (u FieldUpdates) IsEmpty() bool {
	return u.TrackingNumber == nil &&
		u.Recipient == nil &&
		u.Address == nil &&
		u.Courier == nil &&
		u.Status == nil &&
		u.DispatchDate == nil &&
		u.ExpectedDate == nil &&
		u.Notes == nil &&
		!u.ClearExpectedDate
}

// FieldChange records one applied field mutation with its prior and new
// values rendered as opaque strings for the audit ledger.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// ApplyUpdates computes the field-level diff between the delivery and the
// requested updates, validates every change, and applies the whole diff
// atomically. Either all requested changes pass validation and are applied,
// or none are.
//
// Returns the list of applied changes; an empty list means the operation was
// a no-op (nothing differed) and the version and timestamps are untouched.
// Status changes are checked against the supplied transition policy.
func (d *Delivery) ApplyUpdates(updates FieldUpdates, policy TransitionPolicy) ([]FieldChange, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	staged := *d
	var changes []FieldChange

	if updates.TrackingNumber != nil {
		trimmed := strings.TrimSpace(*updates.TrackingNumber)
		if trimmed != staged.trackingNumber {
			if err := staged.setTrackingNumber(trimmed); err != nil {
				return nil, err
			}
			changes = append(changes, FieldChange{FieldTrackingNumber, d.trackingNumber, trimmed})
		}
	}

	if updates.Recipient != nil {
		trimmed := strings.TrimSpace(*updates.Recipient)
		if trimmed != staged.recipient {
			if err := staged.setRecipient(trimmed); err != nil {
				return nil, err
			}
			changes = append(changes, FieldChange{FieldRecipient, d.recipient, trimmed})
		}
	}

	if updates.Address != nil {
		trimmed := strings.TrimSpace(*updates.Address)
		if trimmed != staged.address {
			if err := staged.setAddress(trimmed); err != nil {
				return nil, err
			}
			changes = append(changes, FieldChange{FieldAddress, d.address, trimmed})
		}
	}

	if updates.Courier != nil {
		courier := defaultCourier(*updates.Courier)
		if courier != staged.courier {
			staged.courier = courier
			changes = append(changes, FieldChange{FieldCourier, d.courier, courier})
		}
	}

	if updates.Status != nil && *updates.Status != staged.status {
		if err := policy.ValidateTransition(staged.status, *updates.Status); err != nil {
			return nil, err
		}
		changes = append(changes, FieldChange{FieldStatus, d.status.String(), updates.Status.String()})
		staged.status = *updates.Status
	}

	if updates.DispatchDate != nil {
		date := updates.DispatchDate.UTC()
		if !date.Equal(staged.dispatchDate) {
			changes = append(changes, FieldChange{
				FieldDispatchDate,
				d.dispatchDate.Format(dateLayout),
				date.Format(dateLayout),
			})
			staged.dispatchDate = date
		}
	}

	switch {
	case updates.ClearExpectedDate:
		if staged.expectedDate != nil {
			changes = append(changes, FieldChange{FieldExpectedDate, d.expectedDate.Format(dateLayout), ""})
			staged.expectedDate = nil
		}
	case updates.ExpectedDate != nil:
		date := updates.ExpectedDate.UTC()
		if staged.expectedDate == nil || !date.Equal(*staged.expectedDate) {
			old := ""
			if d.expectedDate != nil {
				old = d.expectedDate.Format(dateLayout)
			}
			changes = append(changes, FieldChange{FieldExpectedDate, old, date.Format(dateLayout)})
			staged.expectedDate = &date
		}
	}

	if updates.Notes != nil && *updates.Notes != staged.notes {
		changes = append(changes, FieldChange{FieldNotes, d.notes, *updates.Notes})
		staged.notes = *updates.Notes
	}

	if len(changes) == 0 {
		return nil, nil
	}

	staged.updatedAt = time.Now().UTC()
	staged.version = d.version + 1
	*d = staged
	return changes, nil
}

// PrimaryChange selects the change noted as the primary field of a logical
// mutation: a status change wins, otherwise the first change applies.
func PrimaryChange(changes []FieldChange) (FieldChange, bool) {
	if len(changes) == 0 {
		return FieldChange{}, false
	}
	for _, c := range changes {
		if c.Field == FieldStatus {
			return c, true
		}
	}
	return changes[0], true
}

// setID validates and sets the delivery's unique identifier.
// This is a private method used only during construction.
func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

// setTrackingNumber validates and sets the tracking number.
// The value is trimmed and must be non-empty.
func (d *Delivery) setTrackingNumber(trackingNumber string) error {
	trimmed := strings.TrimSpace(trackingNumber)
	if trimmed == "" {
		return errs.NewValueIsRequiredError(FieldTrackingNumber)
	}
	d.trackingNumber = trimmed
	return nil
}

// setRecipient validates and sets the recipient name.
func (d *Delivery) setRecipient(recipient string) error {
	trimmed := strings.TrimSpace(recipient)
	if trimmed == "" {
		return errs.NewValueIsRequiredError(FieldRecipient)
	}
	d.recipient = trimmed
	return nil
}

// setAddress validates and sets the destination address.
func (d *Delivery) setAddress(address string) error {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return errs.NewValueIsRequiredError(FieldAddress)
	}
	d.address = trimmed
	return nil
}

// defaultCourier substitutes the placeholder label for empty courier values.
func defaultCourier(courier string) string {
	trimmed := strings.TrimSpace(courier)
	if trimmed == "" {
		return "-"
	}
	return trimmed
}
