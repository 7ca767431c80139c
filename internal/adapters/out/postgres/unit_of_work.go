// Package postgres reaches the external store through its PostgreSQL database
// when the service runs next to it instead of behind the HTTP API.
//
// Reads go straight to the connection pool. Writes run inside a unit of work:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//
//	i, err := uow.IssueRepository().GetForUpdate(ctx, id)
//	if err != nil {
//	    uow.Rollback(ctx)
//	    return err
//	}
//	...
//	return uow.Commit(ctx)
//
// Each UnitOfWork holds at most one transaction; goroutines must not share one.
package postgres

import (
	"context"

	"shopdispatch/internal/adapters/out/postgres/issuerepo"
	"shopdispatch/internal/adapters/out/postgres/riderrepo"
	"shopdispatch/internal/adapters/out/postgres/shipmentrepo"
	"shopdispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work with no transaction open.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork scopes repository calls to one transaction once Begin is called.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn())
}

func (uow *GormUnitOfWork) IssueRepository() ports.IssueRepository {
	return issuerepo.NewGormIssueRepository(uow.conn())
}

func (uow *GormUnitOfWork) RiderRepository() ports.RiderRepository {
	return riderrepo.NewGormRiderRepository(uow.conn())
}

// conn is the open transaction, or the pool when there is none.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// Models lists the store tables, for migrations in tests and local setups.
func Models() []any {
	return []any{
		&shipmentrepo.ShipmentDTO{},
		&issuerepo.IssueDTO{},
		&riderrepo.PositionDTO{},
		&riderrepo.ResponseDTO{},
	}
}
