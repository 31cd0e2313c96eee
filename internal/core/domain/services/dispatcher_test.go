package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistedOrder(t *testing.T, id int64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		"dispatcher@example.com", "Asha Patel", "9876543210",
		"12 Hill Road, Bandra West, Mumbai", "2x biryani", 540.0,
		order.DefaultPickup(), nil,
	)
	require.NoError(t, err)
	require.NoError(t, o.SetID(mustID(t, id)))
	return o
}

func persistedDriver(t *testing.T, id int64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver("dispatcher@example.com", "Ravi Kumar", "9123456780", "ravi@example.com")
	require.NoError(t, err)
	require.NoError(t, d.SetID(mustID(t, id)))
	return d
}

func TestDispatcher_Assign_Initial(t *testing.T) {
	dispatcher := services.NewDispatcher()

	t.Run("should assign pending order to available driver", func(t *testing.T) {
		o := persistedOrder(t, 1)
		d := persistedDriver(t, 10)

		err := dispatcher.Assign(o, d, nil, services.AssignmentInitial)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		assert.True(t, o.Driver().IsEqual(d.ID()))
		assert.False(t, d.IsAvailable())
		assert.True(t, d.CurrentOrder().IsEqual(o.ID()))
	})

	t.Run("should fail second initial assignment of the same order", func(t *testing.T) {
		o := persistedOrder(t, 1)
		first := persistedDriver(t, 10)
		second := persistedDriver(t, 11)
		require.NoError(t, dispatcher.Assign(o, first, nil, services.AssignmentInitial))

		err := dispatcher.Assign(o, second, nil, services.AssignmentInitial)

		require.ErrorIs(t, err, errs.ErrConflictingState)
		assert.True(t, o.Driver().IsEqual(first.ID()))
		assert.True(t, second.IsAvailable())
	})

	t.Run("should fail when driver is already booked", func(t *testing.T) {
		busy := persistedDriver(t, 10)
		require.NoError(t, busy.Book(mustID(t, 99)))
		o := persistedOrder(t, 1)

		err := dispatcher.Assign(o, busy, nil, services.AssignmentInitial)

		require.ErrorIs(t, err, errs.ErrConflictingState)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should fail with previous driver supplied", func(t *testing.T) {
		o := persistedOrder(t, 1)

		err := dispatcher.Assign(o, persistedDriver(t, 10), persistedDriver(t, 11), services.AssignmentInitial)

		require.ErrorIs(t, err, errs.ErrConflictingState)
	})

	t.Run("should fail with unpersisted order", func(t *testing.T) {
		o, err := order.NewOrder(
			"dispatcher@example.com", "Asha Patel", "9876543210",
			"addr", "items", 100, order.DefaultPickup(), nil,
		)
		require.NoError(t, err)

		err = dispatcher.Assign(o, persistedDriver(t, 10), nil, services.AssignmentInitial)

		require.Error(t, err)
	})
}

func TestDispatcher_Assign_Reassign(t *testing.T) {
	dispatcher := services.NewDispatcher()

	assigned := func(t *testing.T) (*order.Order, *driver.Driver) {
		t.Helper()
		o := persistedOrder(t, 1)
		d := persistedDriver(t, 10)
		require.NoError(t, dispatcher.Assign(o, d, nil, services.AssignmentInitial))
		return o, d
	}

	t.Run("should move order to new driver and release previous", func(t *testing.T) {
		o, prev := assigned(t)
		next := persistedDriver(t, 11)

		err := dispatcher.Assign(o, next, prev, services.AssignmentReassign)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		assert.True(t, o.Driver().IsEqual(next.ID()))
		assert.True(t, prev.IsAvailable())
		assert.Nil(t, prev.CurrentOrder())
		assert.False(t, next.IsAvailable())
		assert.True(t, next.CurrentOrder().IsEqual(o.ID()))
	})

	t.Run("should fail on pending order", func(t *testing.T) {
		o := persistedOrder(t, 1)

		err := dispatcher.Assign(o, persistedDriver(t, 11), persistedDriver(t, 10), services.AssignmentReassign)

		require.ErrorIs(t, err, errs.ErrConflictingState)
	})

	t.Run("should fail when previous driver does not carry the order", func(t *testing.T) {
		o, _ := assigned(t)
		stranger := persistedDriver(t, 12)

		err := dispatcher.Assign(o, persistedDriver(t, 11), stranger, services.AssignmentReassign)

		require.ErrorIs(t, err, errs.ErrConflictingState)
	})

	t.Run("should keep previous booking when new driver is unavailable", func(t *testing.T) {
		o, prev := assigned(t)
		busy := persistedDriver(t, 12)
		require.NoError(t, busy.Book(mustID(t, 99)))

		err := dispatcher.Assign(o, busy, prev, services.AssignmentReassign)

		require.ErrorIs(t, err, errs.ErrConflictingState)
		assert.True(t, o.Driver().IsEqual(prev.ID()))
		assert.False(t, prev.IsAvailable())
		assert.True(t, prev.CurrentOrder().IsEqual(o.ID()))
	})

	t.Run("should fail when reassigning to the same driver", func(t *testing.T) {
		o, prev := assigned(t)

		err := dispatcher.Assign(o, prev, prev, services.AssignmentReassign)

		require.ErrorIs(t, err, errs.ErrConflictingState)
	})

	t.Run("should fail on delivered order", func(t *testing.T) {
		o, prev := assigned(t)
		require.NoError(t, dispatcher.Complete(o, prev))

		err := dispatcher.Assign(o, persistedDriver(t, 11), prev, services.AssignmentReassign)

		require.ErrorIs(t, err, errs.ErrConflictingState)
	})
}

func TestDispatcher_Assign_InvalidMode(t *testing.T) {
	dispatcher := services.NewDispatcher()
	o := persistedOrder(t, 1)

	err := dispatcher.Assign(o, persistedDriver(t, 10), nil, services.AssignmentMode(0))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDispatcher_Complete(t *testing.T) {
	dispatcher := services.NewDispatcher()

	t.Run("should deliver order and release driver", func(t *testing.T) {
		o := persistedOrder(t, 1)
		d := persistedDriver(t, 10)
		require.NoError(t, dispatcher.Assign(o, d, nil, services.AssignmentInitial))

		err := dispatcher.Complete(o, d)

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
		assert.True(t, d.IsAvailable())
		assert.Nil(t, d.CurrentOrder())
	})

	t.Run("should fail when driver does not carry the order", func(t *testing.T) {
		o := persistedOrder(t, 1)
		d := persistedDriver(t, 10)
		require.NoError(t, dispatcher.Assign(o, d, nil, services.AssignmentInitial))
		stranger := persistedDriver(t, 11)

		err := dispatcher.Complete(o, stranger)

		require.ErrorIs(t, err, errs.ErrConflictingState)
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("should fail on second completion", func(t *testing.T) {
		o := persistedOrder(t, 1)
		d := persistedDriver(t, 10)
		require.NoError(t, dispatcher.Assign(o, d, nil, services.AssignmentInitial))
		require.NoError(t, dispatcher.Complete(o, d))

		err := dispatcher.Complete(o, d)

		require.ErrorIs(t, err, errs.ErrConflictingState)
	})
}

func TestAssignmentMode_String(t *testing.T) {
	assert.Equal(t, "Initial", services.AssignmentInitial.String())
	assert.Equal(t, "Reassign", services.AssignmentReassign.String())
	assert.Equal(t, "Unknown", services.AssignmentMode(0).String())
}
