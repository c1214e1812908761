package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardtrack/internal/core/application/usecases/commands"
	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/services"
	"cardtrack/internal/pkg/errs"
)

func newImportHandler(factory *MockDeliveryUoWFactory, ledger *MockAuditLedger) commands.ImportDeliveriesCommandHandler {
	return commands.NewImportDeliveriesCommandHandler(
		factory, ledger, services.NewRowNormalizer(), delivery.DefaultTransitionPolicy())
}

func importUoW(ctx context.Context, repo *MockDeliveryRepository) (*MockDeliveryUoW, *MockDeliveryUoWFactory) {
	uow := new(MockDeliveryUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()
	return uow, factory
}

func TestImportDeliveriesCommandHandler_Handle_MixedRows(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewImportDeliveriesCommand("cards.xlsx", commands.ConflictSkip, operatorActor(t), "Web")
	require.NoError(t, err)

	rows := &sliceRowSource{rows: [][]string{
		{"Card #", "Recipient", "Address", "Status"},
		{"CARD-001", "Jane Roe", "12 High St", "In Transit"},
		{"CARD-002", "John Doe", "1 Low Rd", "nonsense status"},
		{"CARD-003", "", "3 Mid Ln", "Pending"},    // invalid: no recipient
		{"CARD-001", "Jane Roe", "12 High St", ""}, // duplicate within the file
	}}

	repo := new(MockDeliveryRepository)
	repo.On("GetByTrackingNumber", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, errs.NewObjectNotFoundError("trackingNumber", "missing")).Times(2)
	repo.On("Add", mock.Anything, mock.MatchedBy(func(d *delivery.Delivery) bool {
		return d.TrackingNumber() == "CARD-001" && d.Status() == delivery.Shipped
	})).Return(nil).Once()
	repo.On("Add", mock.Anything, mock.MatchedBy(func(d *delivery.Delivery) bool {
		return d.TrackingNumber() == "CARD-002" && d.Status() == delivery.Pending
	})).Return(nil).Once()

	_, factory := importUoW(ctx, repo)

	ledger := new(MockAuditLedger)
	ledger.On("Append", ctx, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action() == audit.ActionBulkImport &&
			e.EntityID() == audit.BatchEntityID &&
			e.Remarks() == "cards.xlsx: 4 rows: 2 created, 0 updated, 1 invalid, 1 duplicate"
	})).Return(nil).Once()

	h := newImportHandler(factory, ledger)
	report, err := h.Handle(ctx, cmd, rows)

	require.NoError(t, err)
	assert.Equal(t, commands.ImportReport{
		TotalRows:        4,
		Created:          2,
		SkippedInvalid:   1,
		SkippedDuplicate: 1,
	}, report)
	repo.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestImportDeliveriesCommandHandler_Handle_StoredDuplicateSkipped(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewImportDeliveriesCommand("cards.csv", commands.ConflictSkip, operatorActor(t), "")
	require.NoError(t, err)

	stored := pendingDelivery(t)
	rows := &sliceRowSource{rows: [][]string{
		{"Card #", "Recipient", "Address"},
		{"CARD-001", "Jane Roe", "12 High St"},
	}}

	repo := new(MockDeliveryRepository)
	repo.On("GetByTrackingNumber", mock.Anything, "CARD-001").Return(stored, nil).Once()

	_, factory := importUoW(ctx, repo)
	ledger := new(MockAuditLedger)
	ledger.On("Append", ctx, mock.Anything).Return(nil).Once()

	h := newImportHandler(factory, ledger)
	report, err := h.Handle(ctx, cmd, rows)

	require.NoError(t, err)
	assert.Equal(t, 1, report.SkippedDuplicate)
	assert.Zero(t, report.Created)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestImportDeliveriesCommandHandler_Handle_StoredDuplicateUpserted(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewImportDeliveriesCommand("cards.csv", commands.ConflictUpsert, operatorActor(t), "")
	require.NoError(t, err)

	stored := pendingDelivery(t)
	rows := &sliceRowSource{rows: [][]string{
		{"Card #", "Recipient", "Address", "Status"},
		{"CARD-001", "Janet Roe", "14 High St", "In Transit"},
	}}

	repo := new(MockDeliveryRepository)
	repo.On("GetByTrackingNumber", mock.Anything, "CARD-001").Return(stored, nil).Once()
	repo.On("Update", mock.Anything, stored).Return(nil).Once()

	_, factory := importUoW(ctx, repo)
	ledger := new(MockAuditLedger)
	ledger.On("Append", ctx, mock.Anything).Return(nil).Once()

	h := newImportHandler(factory, ledger)
	report, err := h.Handle(ctx, cmd, rows)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, "Janet Roe", stored.Recipient())
	assert.Equal(t, delivery.Shipped, stored.Status())
}

func TestImportDeliveriesCommandHandler_Handle_EmptyFileStillAudited(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewImportDeliveriesCommand("empty.csv", commands.ConflictSkip, operatorActor(t), "")
	require.NoError(t, err)

	rows := &sliceRowSource{rows: [][]string{
		{"Card #", "Recipient", "Address"},
	}}

	repo := new(MockDeliveryRepository)
	_, factory := importUoW(ctx, repo)

	ledger := new(MockAuditLedger)
	ledger.On("Append", ctx, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Remarks() == "empty.csv: 0 rows: 0 created, 0 updated, 0 invalid, 0 duplicate"
	})).Return(nil).Once()

	h := newImportHandler(factory, ledger)
	report, err := h.Handle(ctx, cmd, rows)

	require.NoError(t, err)
	assert.Zero(t, report.TotalRows)
	ledger.AssertExpectations(t)
}

func TestImportDeliveriesCommandHandler_Handle_MissingCardColumn(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewImportDeliveriesCommand("cards.csv", commands.ConflictSkip, operatorActor(t), "")
	require.NoError(t, err)

	rows := &sliceRowSource{rows: [][]string{
		{"Recipient", "Address"},
	}}

	factory := new(MockDeliveryUoWFactory)
	ledger := new(MockAuditLedger)

	h := newImportHandler(factory, ledger)
	_, err = h.Handle(ctx, cmd, rows)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	factory.AssertNotCalled(t, "Create")
}

func TestImportDeliveriesCommandHandler_Handle_StorageFailureAbortsBatch(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewImportDeliveriesCommand("cards.csv", commands.ConflictSkip, operatorActor(t), "")
	require.NoError(t, err)

	rows := &sliceRowSource{rows: [][]string{
		{"Card #", "Recipient", "Address"},
		{"CARD-001", "Jane Roe", "12 High St"},
	}}

	repo := new(MockDeliveryRepository)
	repo.On("GetByTrackingNumber", mock.Anything, "CARD-001").
		Return(nil, errs.NewObjectNotFoundError("trackingNumber", "CARD-001")).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	uow := new(MockDeliveryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(repo).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()
	ledger := new(MockAuditLedger)

	h := newImportHandler(factory, ledger)
	_, err = h.Handle(ctx, cmd, rows)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestImportDeliveriesCommandHandler_Handle_AuditAppendFails(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewImportDeliveriesCommand("cards.csv", commands.ConflictSkip, operatorActor(t), "")
	require.NoError(t, err)

	rows := &sliceRowSource{rows: [][]string{
		{"Card #", "Recipient", "Address"},
		{"CARD-001", "Jane Roe", "12 High St"},
	}}

	repo := new(MockDeliveryRepository)
	repo.On("GetByTrackingNumber", mock.Anything, "CARD-001").
		Return(nil, errs.NewObjectNotFoundError("trackingNumber", "CARD-001")).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

	_, factory := importUoW(ctx, repo)
	ledger := new(MockAuditLedger)
	ledger.On("Append", ctx, mock.Anything).Return(errors.New("ledger down")).Once()

	h := newImportHandler(factory, ledger)
	report, err := h.Handle(ctx, cmd, rows)

	require.ErrorIs(t, err, errs.ErrAuditAppendFailed)
	assert.Equal(t, 1, report.Created, "the committed report must be returned on partial success")
}
