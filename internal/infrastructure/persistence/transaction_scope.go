package persistence

import (
	"context"

	appinv "github.com/stockpilot/backend/internal/application/inventory"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/orders"
	"gorm.io/gorm"
)

// GormTransactionScope implements the ledger's TransactionScope using GORM
// transactions. The stock mutation, the audit record and the order update
// commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// FinishedGoodRepo returns the finished-good repository scoped to the current transaction
func (r *gormTransactionalRepositories) FinishedGoodRepo() inventory.FinishedGoodRepository {
	return NewGormFinishedGoodRepository(r.tx)
}

// RawMaterialRepo returns the raw-material repository scoped to the current transaction
func (r *gormTransactionalRepositories) RawMaterialRepo() inventory.RawMaterialRepository {
	return NewGormRawMaterialRepository(r.tx)
}

// TagEventRepo returns the audit-trail repository scoped to the current transaction
func (r *gormTransactionalRepositories) TagEventRepo() inventory.TagEventRepository {
	return NewGormTagEventRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() orders.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
