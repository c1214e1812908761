package delivery_test

import (
	"testing"
	"time"

	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatchDate() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
}

func newTestDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(kernel.NewUUID(), "TRK-100", "Alice", "1 Main St", "FastPost", dispatchDate())
	require.NoError(t, err)
	return d
}

func TestNewDelivery(t *testing.T) {
	validID := kernel.NewUUID()

	t.Run("should create valid delivery with all valid parameters", func(t *testing.T) {
		d, err := delivery.NewDelivery(validID, "TRK-100", "Alice", "1 Main St", "FastPost", dispatchDate())

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.True(t, d.ID().IsEqual(validID))
		assert.Equal(t, "TRK-100", d.TrackingNumber())
		assert.Equal(t, "Alice", d.Recipient())
		assert.Equal(t, "1 Main St", d.Address())
		assert.Equal(t, "FastPost", d.Courier())
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Nil(t, d.ExpectedDate())
		assert.Equal(t, int64(1), d.Version())
		assert.False(t, d.UpdatedAt().Before(d.CreatedAt()))
	})

	t.Run("should trim whitespace from required fields", func(t *testing.T) {
		d, err := delivery.NewDelivery(validID, "  TRK-100  ", " Alice ", " 1 Main St ", "", dispatchDate())

		require.NoError(t, err)
		assert.Equal(t, "TRK-100", d.TrackingNumber())
		assert.Equal(t, "Alice", d.Recipient())
		assert.Equal(t, "1 Main St", d.Address())
	})

	t.Run("should default courier label when empty", func(t *testing.T) {
		d, err := delivery.NewDelivery(validID, "TRK-100", "Alice", "1 Main St", "  ", dispatchDate())

		require.NoError(t, err)
		assert.Equal(t, "-", d.Courier())
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		d, err := delivery.NewDelivery(invalidID, "TRK-100", "Alice", "1 Main St", "", dispatchDate())

		require.Error(t, err)
		assert.Nil(t, d)
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("should fail with blank required fields", func(t *testing.T) {
		testCases := []struct {
			name                               string
			trackingNumber, recipient, address string
		}{
			{"empty tracking number", "", "Alice", "1 Main St"},
			{"whitespace tracking number", "   ", "Alice", "1 Main St"},
			{"empty recipient", "TRK-100", "", "1 Main St"},
			{"empty address", "TRK-100", "Alice", ""},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				d, err := delivery.NewDelivery(validID, tc.trackingNumber, tc.recipient, tc.address, "", dispatchDate())

				require.Error(t, err)
				assert.Nil(t, d)
				require.ErrorIs(t, err, errs.ErrValueIsRequired)
			})
		}
	})
}

func TestNewImportedDelivery(t *testing.T) {
	t.Run("should create delivery with normalized status and expected date", func(t *testing.T) {
		expected := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

		d, err := delivery.NewImportedDelivery(
			kernel.NewUUID(), "TRK-200", "Bob", "2 Elm St", "",
			delivery.Shipped, dispatchDate(), &expected,
		)

		require.NoError(t, err)
		assert.Equal(t, delivery.Shipped, d.Status())
		require.NotNil(t, d.ExpectedDate())
		assert.True(t, expected.Equal(*d.ExpectedDate()))
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		d, err := delivery.NewImportedDelivery(
			kernel.NewUUID(), "TRK-200", "Bob", "2 Elm St", "",
			delivery.Unknown, dispatchDate(), nil,
		)

		require.Error(t, err)
		assert.Nil(t, d)
	})
}

func TestRestoreDelivery(t *testing.T) {
	id := kernel.NewUUID()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("should restore complete delivery", func(t *testing.T) {
		expected := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

		d, err := delivery.RestoreDelivery(
			id, "TRK-300", "Carol", "3 Oak St", "SwiftShip",
			dispatchDate(), &expected, delivery.Delayed, "left at depot",
			created, updated, 7,
		)

		require.NoError(t, err)
		assert.Equal(t, delivery.Delayed, d.Status())
		assert.Equal(t, "left at depot", d.Notes())
		assert.Equal(t, created, d.CreatedAt())
		assert.Equal(t, updated, d.UpdatedAt())
		assert.Equal(t, int64(7), d.Version())
	})

	t.Run("should reject updated timestamp before created", func(t *testing.T) {
		d, err := delivery.RestoreDelivery(
			id, "TRK-300", "Carol", "3 Oak St", "",
			dispatchDate(), nil, delivery.Pending, "",
			created, created.Add(-time.Minute), 1,
		)

		require.Error(t, err)
		assert.Nil(t, d)
		assert.Contains(t, err.Error(), "updatedAt")
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		_, err := delivery.RestoreDelivery(
			id, "TRK-300", "Carol", "3 Oak St", "",
			dispatchDate(), nil, delivery.Unknown, "",
			created, updated, 1,
		)

		require.Error(t, err)
	})
}

func TestDelivery_Validate(t *testing.T) {
	t.Run("zero value is not constructed", func(t *testing.T) {
		var d delivery.Delivery
		require.ErrorIs(t, d.Validate(), delivery.ErrDeliveryIsNotConstructed)
	})

	t.Run("nil delivery is not constructed", func(t *testing.T) {
		var d *delivery.Delivery
		require.ErrorIs(t, d.Validate(), delivery.ErrDeliveryIsNotConstructed)
	})
}

func TestDelivery_ApplyUpdates(t *testing.T) {
	policy := delivery.DefaultTransitionPolicy()

	t.Run("status change produces one change with old and new strings", func(t *testing.T) {
		d := newTestDelivery(t)
		shipped := delivery.Shipped

		changes, err := d.ApplyUpdates(delivery.FieldUpdates{Status: &shipped}, policy)

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, delivery.FieldStatus, changes[0].Field)
		assert.Equal(t, "Pending", changes[0].OldValue)
		assert.Equal(t, "Shipped", changes[0].NewValue)
		assert.Equal(t, delivery.Shipped, d.Status())
		assert.Equal(t, int64(2), d.Version())
	})

	t.Run("empty updates are a zero-delta no-op", func(t *testing.T) {
		d := newTestDelivery(t)
		before := d.UpdatedAt()

		changes, err := d.ApplyUpdates(delivery.FieldUpdates{}, policy)

		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Equal(t, int64(1), d.Version())
		assert.Equal(t, before, d.UpdatedAt())
	})

	t.Run("same-value updates are a zero-delta no-op", func(t *testing.T) {
		d := newTestDelivery(t)
		recipient := "Alice"
		pending := delivery.Pending

		changes, err := d.ApplyUpdates(delivery.FieldUpdates{Recipient: &recipient, Status: &pending}, policy)

		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Equal(t, int64(1), d.Version())
	})

	t.Run("illegal transition rejects whole diff", func(t *testing.T) {
		d := newTestDelivery(t)
		recipient := "Mallory"
		delivered := delivery.Delivered

		changes, err := d.ApplyUpdates(delivery.FieldUpdates{Recipient: &recipient, Status: &delivered}, policy)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, changes)
		// nothing was applied
		assert.Equal(t, "Alice", d.Recipient())
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Equal(t, int64(1), d.Version())
	})

	t.Run("blank required field rejects whole diff", func(t *testing.T) {
		d := newTestDelivery(t)
		blank := "   "
		shipped := delivery.Shipped

		_, err := d.ApplyUpdates(delivery.FieldUpdates{Address: &blank, Status: &shipped}, policy)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, "1 Main St", d.Address())
		assert.Equal(t, delivery.Pending, d.Status())
	})

	t.Run("multi-field diff applies atomically", func(t *testing.T) {
		d := newTestDelivery(t)
		courier := "SwiftShip"
		notes := "rerouted"
		expected := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)

		changes, err := d.ApplyUpdates(delivery.FieldUpdates{
			Courier:      &courier,
			Notes:        &notes,
			ExpectedDate: &expected,
		}, policy)

		require.NoError(t, err)
		assert.Len(t, changes, 3)
		assert.Equal(t, "SwiftShip", d.Courier())
		assert.Equal(t, "rerouted", d.Notes())
		require.NotNil(t, d.ExpectedDate())
		assert.Equal(t, int64(2), d.Version())
	})

	t.Run("expected date can be cleared", func(t *testing.T) {
		expected := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)
		d, err := delivery.NewImportedDelivery(
			kernel.NewUUID(), "TRK-400", "Dave", "4 Pine St", "",
			delivery.Pending, dispatchDate(), &expected,
		)
		require.NoError(t, err)

		changes, err := d.ApplyUpdates(delivery.FieldUpdates{ClearExpectedDate: true}, delivery.DefaultTransitionPolicy())

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, delivery.FieldExpectedDate, changes[0].Field)
		assert.Equal(t, "2025-03-25", changes[0].OldValue)
		assert.Empty(t, changes[0].NewValue)
		assert.Nil(t, d.ExpectedDate())
	})

	t.Run("tracking number change is recorded", func(t *testing.T) {
		d := newTestDelivery(t)
		tn := "TRK-999"

		changes, err := d.ApplyUpdates(delivery.FieldUpdates{TrackingNumber: &tn}, policy)

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, delivery.FieldTrackingNumber, changes[0].Field)
		assert.Equal(t, "TRK-100", changes[0].OldValue)
		assert.Equal(t, "TRK-999", changes[0].NewValue)
	})
}

func TestPrimaryChange(t *testing.T) {
	t.Run("status change wins", func(t *testing.T) {
		changes := []delivery.FieldChange{
			{Field: delivery.FieldNotes, OldValue: "", NewValue: "x"},
			{Field: delivery.FieldStatus, OldValue: "Pending", NewValue: "Shipped"},
		}

		primary, ok := delivery.PrimaryChange(changes)

		require.True(t, ok)
		assert.Equal(t, delivery.FieldStatus, primary.Field)
	})

	t.Run("first change otherwise", func(t *testing.T) {
		changes := []delivery.FieldChange{
			{Field: delivery.FieldCourier, OldValue: "-", NewValue: "SwiftShip"},
			{Field: delivery.FieldNotes, OldValue: "", NewValue: "x"},
		}

		primary, ok := delivery.PrimaryChange(changes)

		require.True(t, ok)
		assert.Equal(t, delivery.FieldCourier, primary.Field)
	})

	t.Run("empty diff has no primary", func(t *testing.T) {
		_, ok := delivery.PrimaryChange(nil)
		assert.False(t, ok)
	})
}

func TestDelivery_IsOverdue(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)

	newWithStatus := func(t *testing.T, status delivery.Status, expected *time.Time) *delivery.Delivery {
		t.Helper()
		d, err := delivery.NewImportedDelivery(
			kernel.NewUUID(), "TRK-500", "Eve", "5 Birch St", "",
			status, dispatchDate(), expected,
		)
		require.NoError(t, err)
		return d
	}

	t.Run("shipped past expected date is overdue", func(t *testing.T) {
		assert.True(t, newWithStatus(t, delivery.Shipped, &past).IsOverdue(now))
	})

	t.Run("future expected date is not overdue", func(t *testing.T) {
		assert.False(t, newWithStatus(t, delivery.Shipped, &future).IsOverdue(now))
	})

	t.Run("no expected date is never overdue", func(t *testing.T) {
		assert.False(t, newWithStatus(t, delivery.Shipped, nil).IsOverdue(now))
	})

	t.Run("terminal and exception states are not overdue", func(t *testing.T) {
		assert.False(t, newWithStatus(t, delivery.Delivered, &past).IsOverdue(now))
		assert.False(t, newWithStatus(t, delivery.Failed, &past).IsOverdue(now))
		assert.False(t, newWithStatus(t, delivery.Delayed, &past).IsOverdue(now))
	})
}
