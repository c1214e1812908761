package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardtrack/internal/core/application/usecases/commands"
	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/errs"
)

func TestCreateDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	actor := operatorActor(t)
	cmd, err := commands.NewCreateDeliveryCommand(
		kernel.NewUUID(), "CARD-001", "Jane Roe", "12 High St", "DHL", actor, "Web")
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	uow := new(MockDeliveryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	ledger := new(MockAuditLedger)
	ledger.On("Append", ctx, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action() == audit.ActionCreate &&
			e.NewValue() == "Pending" &&
			e.ActorName() == "j.smith" &&
			e.Source() == "Web"
	})).Return(nil).Once()

	h := commands.NewCreateDeliveryCommandHandler(factory, ledger)
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "CARD-001", created.TrackingNumber())
	assert.Equal(t, delivery.Pending, created.Status())
	assert.Equal(t, int64(1), created.Version())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateDeliveryCommand{} // not constructed properly
	factory := new(MockDeliveryUoWFactory)
	ledger := new(MockAuditLedger)

	h := commands.NewCreateDeliveryCommandHandler(factory, ledger)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateDeliveryCommandHandler_Handle_DuplicateTrackingNumber(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateDeliveryCommand(
		kernel.NewUUID(), "CARD-001", "Jane Roe", "12 High St", "", operatorActor(t), "")
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	uow := new(MockDeliveryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.Anything).
			Return(errs.NewDuplicateValueError("trackingNumber", "CARD-001")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()
	ledger := new(MockAuditLedger)

	h := commands.NewCreateDeliveryCommandHandler(factory, ledger)
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrDuplicateValue)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_AuditAppendFails(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateDeliveryCommand(
		kernel.NewUUID(), "CARD-001", "Jane Roe", "12 High St", "", operatorActor(t), "")
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	uow := new(MockDeliveryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	ledger := new(MockAuditLedger)
	ledger.On("Append", ctx, mock.Anything).Return(errors.New("ledger down")).Once()

	h := commands.NewCreateDeliveryCommandHandler(factory, ledger)
	created, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAuditAppendFailed)
	require.NotNil(t, created, "the committed delivery must be returned on partial success")
	assert.Equal(t, "CARD-001", created.TrackingNumber())
}
