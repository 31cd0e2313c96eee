// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. The Unit of Work maintains the set of aggregates affected by a
// business transaction and coordinates writing out changes atomically.
//
// Key Features:
//   - Transaction management across the driver and order repositories
//   - Aggregate tracking for post-commit processing
//   - Automatic isolation between concurrent operations
//   - Repository factory pattern for consistent database connections
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Multi-repository transactions work the same way: every repository obtained
// from the unit of work after Begin runs inside the same transaction, so an
// order update and the matching driver reservation commit or roll back
// together.
//
// Concurrency considerations:
//   - Each UnitOfWork instance provides an isolated transaction
//   - Concurrent goroutines must use separate UnitOfWork instances
//   - Driver reservation relies on a conditional update rather than
//     row locks, so transactions stay short under contention
package postgres

import (
	"context"

	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// Useful for implementing patterns like the outbox pattern later.
type trackedAggregate struct {
	ID        kernel.ID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using a shared GORM
// database connection. The factory ensures each business operation gets a
// fresh unit of work with proper isolation from concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. The provided database connection is shared by all instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for transaction management.
// Each instance maintains its own transaction state and aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks aggregate
// changes for business operations. It implements the Unit of Work pattern
// using GORM's transaction capabilities.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Subsequent repository operations execute within this transaction.
// Calling Begin again on an active instance is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// After commit the transaction is closed and cannot be reused.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// After rollback the transaction is closed and cannot be reused.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// DriverRepository provides access to driver persistence within the unit of
// work. Operations execute within the current transaction if one is active,
// otherwise they use the main database connection directly.
func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return driverrepo.NewGormDriverRepository(db, uow)
}

// OrderRepository provides access to order persistence within the unit of
// work. Operations execute within the current transaction if one is active,
// otherwise they use the main database connection directly.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Repository implementations call this when aggregates are added
// or updated, making them available for post-transaction processing.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.ID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
