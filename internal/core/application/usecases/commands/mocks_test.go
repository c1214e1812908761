package commands_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cardtrack/internal/core/application/usecases/commands"
	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/core/ports"
)

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*delivery.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeliveryRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*delivery.Delivery, error) {
	args := m.Called(ctx, trackingNumber)
	if d := args.Get(0); d != nil {
		return d.(*delivery.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeliveryRepository) GetExceptions(ctx context.Context) ([]*delivery.Delivery, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.([]*delivery.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeliveryRepository) GetAllShipped(ctx context.Context) ([]*delivery.Delivery, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.([]*delivery.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAuditLedger struct{ mock.Mock }

func (m *MockAuditLedger) Append(ctx context.Context, entry audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLedger) Query(ctx context.Context, filter audit.Filter, page audit.Page) ([]audit.Entry, string, bool, error) {
	args := m.Called(ctx, filter, page)
	if e := args.Get(0); e != nil {
		return e.([]audit.Entry), args.String(1), args.Bool(2), args.Error(3)
	}
	return nil, args.String(1), args.Bool(2), args.Error(3)
}

type MockDeliveryUoW struct{ mock.Mock }

func (m *MockDeliveryUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

// sliceRowSource feeds pre-built records to handlers under test.
type sliceRowSource struct {
	rows   [][]string
	next   int
	closed bool
}

func (s *sliceRowSource) Next() ([]string, bool, error) {
	if s.next >= len(s.rows) {
		return nil, false, nil
	}
	row := s.rows[s.next]
	s.next++
	return row, true, nil
}

func (s *sliceRowSource) Close() error {
	s.closed = true
	return nil
}
