package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Reserve(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.ID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllAvailable(ctx context.Context, ownerEmail string) ([]*driver.Driver, error) {
	args := m.Called(ctx, ownerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllWithStaleLocation(ctx context.Context, cutoff time.Time) ([]*driver.Driver, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockDriverUoW struct{ mock.Mock }

func (m *MockDriverUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriverUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriverUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriverUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

func TestRegisterDriverCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterDriverCommand("boss@fleet.in", "Ravi Kumar", "9123456780", "ravi@fleet.in")
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockDriverUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Add", ctx, mock.AnythingOfType("*driver.Driver")).
			Run(func(args mock.Arguments) {
				d := args.Get(1).(*driver.Driver)
				id, idErr := kernel.NewID(7)
				require.NoError(t, idErr)
				require.NoError(t, d.SetID(id))
			}).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRegisterDriverCommandHandler(factory)
	id, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, int64(7), id.Value())
	driverRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRegisterDriverCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.RegisterDriverCommand{} // not constructed properly

	factory := new(MockDriverUoWFactory)
	handler := commands.NewRegisterDriverCommandHandler(factory)
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrRegisterDriverCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestRegisterDriverCommandHandler_Handle_InvalidDriverData(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterDriverCommand("boss@fleet.in", "", "12", "ravi@fleet.in")
	require.NoError(t, err)

	factory := new(MockDriverUoWFactory)
	handler := commands.NewRegisterDriverCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestRegisterDriverCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterDriverCommand("boss@fleet.in", "Ravi Kumar", "9123456780", "ravi@fleet.in")
	require.NoError(t, err)

	uow := new(MockDriverUoW)
	factory := new(MockDriverUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewRegisterDriverCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "begin error")
}

func TestRegisterDriverCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterDriverCommand("boss@fleet.in", "Ravi Kumar", "9123456780", "ravi@fleet.in")
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockDriverUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Add", ctx, mock.AnythingOfType("*driver.Driver")).Return(errors.New("insert failed")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRegisterDriverCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "insert failed")
	uow.AssertNotCalled(t, "Commit", ctx)
}
