// Package queries contains read-only operations over the delivery store and
// audit ledger. Query handlers bypass the domain aggregates and read
// projections straight from the database, per CQRS.
package queries

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"cardtrack/internal/core/domain/model/kernel"
)

// DeliveryResponse is the read model for one delivery row. Shared by the
// listing queries; the status is rendered as its canonical string.
type DeliveryResponse struct {
	ID             kernel.UUID
	TrackingNumber string
	Recipient      string
	Address        string
	Courier        string
	Status         string
	DispatchDate   time.Time
	ExpectedDate   *time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
}

// deliveryColumns is the select list every delivery query scans, in the
// order scanDeliveryRow expects.
const deliveryColumns = `
	id,
	tracking_number,
	recipient,
	address,
	courier,
	status,
	dispatch_date,
	expected_date,
	notes,
	created_at,
	updated_at,
	version
`

func scanDeliveryRow(rows *sql.Rows) (DeliveryResponse, error) {
	var resp DeliveryResponse
	var id uuid.UUID
	var expectedDate sql.NullTime

	if err := rows.Scan(
		&id,
		&resp.TrackingNumber,
		&resp.Recipient,
		&resp.Address,
		&resp.Courier,
		&resp.Status,
		&resp.DispatchDate,
		&expectedDate,
		&resp.Notes,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&resp.Version,
	); err != nil {
		return DeliveryResponse{}, err
	}

	deliveryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return DeliveryResponse{}, err
	}
	resp.ID = deliveryID

	if expectedDate.Valid {
		date := expectedDate.Time
		resp.ExpectedDate = &date
	}

	return resp, nil
}
