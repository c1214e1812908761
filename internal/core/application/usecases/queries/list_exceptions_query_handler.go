package queries

import (
	"context"

	"gorm.io/gorm"

	"cardtrack/internal/core/domain/model/delivery"
)

// ListExceptionsQueryHandler reads the exception worklist from the database.
// Only Failed and Delayed deliveries qualify; ordering puts the earliest
// expected date first and dateless deliveries last so reviewers work the
// most urgent cards first.
type ListExceptionsQueryHandler struct {
	db *gorm.DB
}

// NewListExceptionsQueryHandler creates a handler for exception worklist queries.
func NewListExceptionsQueryHandler(db *gorm.DB) ListExceptionsQueryHandler {
	return ListExceptionsQueryHandler{db: db}
}

// Handle executes the query and returns the exception worklist.
func (h ListExceptionsQueryHandler) Handle(
	ctx context.Context,
	query ListExceptionsQuery,
) ([]DeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]DeliveryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+deliveryColumns+`
		FROM deliveries
		WHERE status IN (?, ?)
		ORDER BY expected_date ASC NULLS LAST, created_at ASC, id
	`, delivery.Failed.String(), delivery.Delayed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		resp, scanErr := scanDeliveryRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		deliveries = append(deliveries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
