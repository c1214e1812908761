package ports

import (
	"context"

	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
// Provides methods for storing, retrieving, and querying deliveries by their
// identity, tracking number, and exception state.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate to storage.
	// Returns errs.DuplicateValueError when the tracking number is
	// already taken.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate.
	// The write is conditional on the version the aggregate was loaded
	// with; returns errs.ConcurrentUpdateError when another writer got
	// there first.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByTrackingNumber retrieves a delivery by its tracking number.
	// Returns errs.ObjectNotFoundError when no delivery carries it.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*delivery.Delivery, error)

	// GetExceptions retrieves all deliveries in an exception status
	// (Failed or Delayed), ordered by expected delivery date ascending
	// with dateless deliveries last.
	GetExceptions(ctx context.Context) ([]*delivery.Delivery, error)

	// GetAllShipped retrieves all deliveries currently in Shipped status.
	// Used by the overdue sweep to find candidates for Delayed.
	GetAllShipped(ctx context.Context) ([]*delivery.Delivery, error)
}
