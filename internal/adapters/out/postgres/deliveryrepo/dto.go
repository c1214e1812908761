// Package deliveryrepo provides data transfer objects and mapping functions for delivery persistence.
// This package implements the repository pattern for the delivery domain aggregate, handling
// the conversion between domain entities and database representations.
package deliveryrepo

import (
	"time"

	"github.com/google/uuid"

	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/model/kernel"
)

// DeliveryDTO represents the database structure for persisting delivery aggregates.
// The tracking number carries a unique index: it is the business key operators
// search by, and duplicate uploads must be rejected at the store.
//
// Domain code owns the created/updated timestamps and the version counter,
// so GORM's automatic timestamping is switched off.
type DeliveryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingNumber string    `gorm:"uniqueIndex;not null"`
	Recipient      string    `gorm:"not null"`
	Address        string    `gorm:"not null"`
	Courier        string    `gorm:"not null"`
	Status         string    `gorm:"index;not null"`
	DispatchDate   time.Time
	ExpectedDate   *time.Time `gorm:"index"`
	Notes          string
	CreatedAt      time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
	Version        int64     `gorm:"not null"`
}

// TableName specifies the database table name for delivery entities.
// Overrides GORM's default naming convention to use "deliveries".
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// fromDomain converts a delivery domain aggregate to its database representation.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:             aggregate.ID().Bytes(),
		TrackingNumber: aggregate.TrackingNumber(),
		Recipient:      aggregate.Recipient(),
		Address:        aggregate.Address(),
		Courier:        aggregate.Courier(),
		Status:         aggregate.Status().String(),
		DispatchDate:   aggregate.DispatchDate(),
		ExpectedDate:   aggregate.ExpectedDate(),
		Notes:          aggregate.Notes(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
		Version:        aggregate.Version(),
	}
}

// toDomain converts a database DTO to a delivery domain aggregate using RestoreDelivery.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(
		id,
		dto.TrackingNumber,
		dto.Recipient,
		dto.Address,
		dto.Courier,
		dto.DispatchDate,
		dto.ExpectedDate,
		status,
		dto.Notes,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Version,
	)
}
