package inventory

import (
	"context"

	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/orders"
)

// TransactionScope provides transactional access to the repositories a stock
// mutation touches. Everything executed within one scope commits or rolls
// back atomically: a stock delta is never applied without its audit record,
// and a tag out never updates stock without booking the fulfillment.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within one
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// FinishedGoodRepo returns the finished-good repository scoped to the transaction
	FinishedGoodRepo() inventory.FinishedGoodRepository
	// RawMaterialRepo returns the raw-material repository scoped to the transaction
	RawMaterialRepo() inventory.RawMaterialRepository
	// TagEventRepo returns the audit-trail repository scoped to the transaction
	TagEventRepo() inventory.TagEventRepository
	// OrderRepo returns the order repository scoped to the transaction
	OrderRepo() orders.OrderRepository
}

// NoOpTransactionScope runs scope functions without a real transaction.
// Useful in tests where repositories are in-memory fakes.
type NoOpTransactionScope struct {
	finishedGoodRepo inventory.FinishedGoodRepository
	rawMaterialRepo  inventory.RawMaterialRepository
	tagEventRepo     inventory.TagEventRepository
	orderRepo        orders.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	finishedGoodRepo inventory.FinishedGoodRepository,
	rawMaterialRepo inventory.RawMaterialRepository,
	tagEventRepo inventory.TagEventRepository,
	orderRepo orders.OrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		finishedGoodRepo: finishedGoodRepo,
		rawMaterialRepo:  rawMaterialRepo,
		tagEventRepo:     tagEventRepo,
		orderRepo:        orderRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// FinishedGoodRepo returns the finished-good repository.
func (s *NoOpTransactionScope) FinishedGoodRepo() inventory.FinishedGoodRepository {
	return s.finishedGoodRepo
}

// RawMaterialRepo returns the raw-material repository.
func (s *NoOpTransactionScope) RawMaterialRepo() inventory.RawMaterialRepository {
	return s.rawMaterialRepo
}

// TagEventRepo returns the audit-trail repository.
func (s *NoOpTransactionScope) TagEventRepo() inventory.TagEventRepository {
	return s.tagEventRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() orders.OrderRepository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
