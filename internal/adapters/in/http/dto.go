package http

import (
	"time"

	"cardtrack/internal/core/application/usecases/commands"
	"cardtrack/internal/core/application/usecases/queries"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/pkg/errs"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// Error is the uniform error body returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Delivery is the wire representation of one delivery.
type Delivery struct {
	ID             string  `json:"id"`
	TrackingNumber string  `json:"trackingNumber"`
	Recipient      string  `json:"recipient"`
	Address        string  `json:"address"`
	Courier        string  `json:"courier"`
	Status         string  `json:"status"`
	DispatchDate   string  `json:"dispatchDate"`
	ExpectedDate   *string `json:"expectedDate"`
	Notes          string  `json:"notes,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
	Version        int64   `json:"version"`
	AuditPending   bool    `json:"auditPending,omitempty"`
}

// NewDelivery is the request body for manual delivery registration.
type NewDelivery struct {
	TrackingNumber string `json:"trackingNumber"`
	Recipient      string `json:"recipient"`
	Address        string `json:"address"`
	Courier        string `json:"courier"`
}

// DeliveryChange is the request body for mutating a delivery. Absent fields
// are left unchanged; expectedDate set to an empty string clears the date.
type DeliveryChange struct {
	TrackingNumber *string `json:"trackingNumber"`
	Recipient      *string `json:"recipient"`
	Address        *string `json:"address"`
	Courier        *string `json:"courier"`
	Status         *string `json:"status"`
	DispatchDate   *string `json:"dispatchDate"`
	ExpectedDate   *string `json:"expectedDate"`
	Notes          *string `json:"notes"`
	Version        int64   `json:"version"`
	Remarks        string  `json:"remarks"`
}

// ImportResult is the response body for a bulk upload.
type ImportResult struct {
	TotalRows        int  `json:"totalRows"`
	Created          int  `json:"created"`
	Updated          int  `json:"updated"`
	SkippedInvalid   int  `json:"skippedInvalid"`
	SkippedDuplicate int  `json:"skippedDuplicate"`
	AuditPending     bool `json:"auditPending,omitempty"`
}

// AuditEntry is the wire representation of one audit trail entry.
type AuditEntry struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	ActorName  string `json:"username"`
	ActorID    string `json:"userId,omitempty"`
	Action     string `json:"actionType"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Field      string `json:"field,omitempty"`
	OldValue   string `json:"oldValue,omitempty"`
	NewValue   string `json:"newValue,omitempty"`
	Source     string `json:"source"`
	Remarks    string `json:"remarks,omitempty"`
}

// AuditLog is one page of the audit trail.
type AuditLog struct {
	Entries    []AuditEntry `json:"entries"`
	NextCursor string       `json:"nextCursor,omitempty"`
	HasMore    bool         `json:"hasMore"`
}

// CorrectionReject is the response body for a correction the transition
// policy rejected; it carries the stored record alongside the error.
type CorrectionReject struct {
	Error    Error     `json:"error"`
	Delivery *Delivery `json:"delivery,omitempty"`
}

func deliveryFromQuery(resp queries.DeliveryResponse) Delivery {
	d := Delivery{
		ID:             resp.ID.String(),
		TrackingNumber: resp.TrackingNumber,
		Recipient:      resp.Recipient,
		Address:        resp.Address,
		Courier:        resp.Courier,
		Status:         resp.Status,
		DispatchDate:   resp.DispatchDate.UTC().Format(dateLayout),
		Notes:          resp.Notes,
		CreatedAt:      resp.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.UTC().Format(time.RFC3339),
		Version:        resp.Version,
	}
	if resp.ExpectedDate != nil {
		date := resp.ExpectedDate.UTC().Format(dateLayout)
		d.ExpectedDate = &date
	}
	return d
}

func deliveryFromAggregate(aggregate *delivery.Delivery) Delivery {
	d := Delivery{
		ID:             aggregate.ID().String(),
		TrackingNumber: aggregate.TrackingNumber(),
		Recipient:      aggregate.Recipient(),
		Address:        aggregate.Address(),
		Courier:        aggregate.Courier(),
		Status:         aggregate.Status().String(),
		DispatchDate:   aggregate.DispatchDate().UTC().Format(dateLayout),
		Notes:          aggregate.Notes(),
		CreatedAt:      aggregate.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:      aggregate.UpdatedAt().UTC().Format(time.RFC3339),
		Version:        aggregate.Version(),
	}
	if expected := aggregate.ExpectedDate(); expected != nil {
		date := expected.UTC().Format(dateLayout)
		d.ExpectedDate = &date
	}
	return d
}

func importResultFromReport(report commands.ImportReport) ImportResult {
	return ImportResult{
		TotalRows:        report.TotalRows,
		Created:          report.Created,
		Updated:          report.Updated,
		SkippedInvalid:   report.SkippedInvalid,
		SkippedDuplicate: report.SkippedDuplicate,
	}
}

func auditEntryFromQuery(resp queries.AuditEntryResponse) AuditEntry {
	return AuditEntry{
		ID:         resp.ID.String(),
		Timestamp:  resp.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorName:  resp.ActorName,
		ActorID:    resp.ActorID,
		Action:     resp.Action,
		EntityType: resp.EntityType,
		EntityID:   resp.EntityID,
		Field:      resp.Field,
		OldValue:   resp.OldValue,
		NewValue:   resp.NewValue,
		Source:     resp.Source,
		Remarks:    resp.Remarks,
	}
}

// fieldUpdates converts the wire change body to domain field updates.
// An expectedDate of "" clears the stored date.
func (c DeliveryChange) fieldUpdates() (delivery.FieldUpdates, error) {
	updates := delivery.FieldUpdates{
		TrackingNumber: c.TrackingNumber,
		Recipient:      c.Recipient,
		Address:        c.Address,
		Courier:        c.Courier,
		Notes:          c.Notes,
	}

	if c.Status != nil {
		status, err := delivery.ParseStatus(*c.Status)
		if err != nil {
			return delivery.FieldUpdates{}, err
		}
		updates.Status = &status
	}

	if c.DispatchDate != nil {
		date, err := time.Parse(dateLayout, *c.DispatchDate)
		if err != nil {
			return delivery.FieldUpdates{}, errs.NewValueIsInvalidErrorWithCause("dispatchDate", err)
		}
		updates.DispatchDate = &date
	}

	if c.ExpectedDate != nil {
		if *c.ExpectedDate == "" {
			updates.ClearExpectedDate = true
		} else {
			date, err := time.Parse(dateLayout, *c.ExpectedDate)
			if err != nil {
				return delivery.FieldUpdates{}, errs.NewValueIsInvalidErrorWithCause("expectedDate", err)
			}
			updates.ExpectedDate = &date
		}
	}

	return updates, nil
}
