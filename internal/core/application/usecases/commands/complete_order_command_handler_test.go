package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompleteOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	testOrder := pendingOrder(t, 1)
	carrier := availableDriver(t, 10)
	require.NoError(t, services.NewDispatcher().Assign(testOrder, carrier, nil, services.AssignmentInitial))

	cmd, err := commands.NewCompleteOrderCommand(mustID(t, 1))
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, cmd.OrderID()).Return(testOrder, nil).Once(),
		driverRepo.On("Get", ctx, carrier.ID()).Return(carrier, nil).Once(),
		orderRepo.On("Update", ctx, testOrder).Return(nil).Once(),
		driverRepo.On("Update", ctx, carrier).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, testOrder.Status())
	assert.True(t, carrier.IsAvailable())
	assert.Nil(t, carrier.CurrentOrder())
	orderRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
}

func TestCompleteOrderCommandHandler_Handle_PendingOrderFails(t *testing.T) {
	ctx := t.Context()

	testOrder := pendingOrder(t, 1)

	cmd, err := commands.NewCompleteOrderCommand(mustID(t, 1))
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, cmd.OrderID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflictingState)
	assert.Equal(t, order.Pending, testOrder.Status())
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCompleteOrderCommandHandler_Handle_SecondCompletionFails(t *testing.T) {
	ctx := t.Context()

	testOrder := pendingOrder(t, 1)
	carrier := availableDriver(t, 10)
	dispatcher := services.NewDispatcher()
	require.NoError(t, dispatcher.Assign(testOrder, carrier, nil, services.AssignmentInitial))
	require.NoError(t, dispatcher.Complete(testOrder, carrier))

	cmd, err := commands.NewCompleteOrderCommand(mustID(t, 1))
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, cmd.OrderID()).Return(testOrder, nil).Once(),
		driverRepo.On("Get", ctx, carrier.ID()).Return(carrier, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflictingState)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCompleteOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CompleteOrderCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewCompleteOrderCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCompleteOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
