package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/stockpilot/backend/internal/application/inventory"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	goods := NewGormFinishedGoodRepository(db)
	events := NewGormTagEventRepository(db)

	newGood := func(t *testing.T) *inventory.FinishedGood {
		t.Helper()
		good, err := inventory.NewFinishedGood(uuid.New(), decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, goods.Save(ctx, good))
		return good
	}

	t.Run("stock mutation and audit record commit together", func(t *testing.T) {
		good := newGood(t)
		userID := uuid.New()

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			current, err := repos.FinishedGoodRepo().FindByID(ctx, good.ID)
			if err != nil {
				return err
			}
			previous, next, err := current.ApplyDelta(decimal.NewFromInt(3))
			if err != nil {
				return err
			}
			if err := repos.FinishedGoodRepo().SaveWithLock(ctx, current); err != nil {
				return err
			}
			event, err := inventory.NewTagEvent(good.ID, inventory.TagActionIn, "TAG-TX-1",
				decimal.NewFromInt(3), previous, next, userID)
			if err != nil {
				return err
			}
			return repos.TagEventRepo().Append(ctx, event)
		})
		require.NoError(t, err)

		found, err := goods.FindByID(ctx, good.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentStock.Equal(decimal.NewFromInt(3)))

		count, err := events.CountByFinishedGood(ctx, good.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("an error rolls everything back", func(t *testing.T) {
		good := newGood(t)
		userID := uuid.New()

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			current, err := repos.FinishedGoodRepo().FindByID(ctx, good.ID)
			if err != nil {
				return err
			}
			if _, _, err := current.ApplyDelta(decimal.NewFromInt(7)); err != nil {
				return err
			}
			if err := repos.FinishedGoodRepo().SaveWithLock(ctx, current); err != nil {
				return err
			}
			event, err := inventory.NewTagEvent(good.ID, inventory.TagActionIn, "TAG-TX-2",
				decimal.NewFromInt(7), decimal.Zero, decimal.NewFromInt(7), userID)
			if err != nil {
				return err
			}
			if err := repos.TagEventRepo().Append(ctx, event); err != nil {
				return err
			}
			return shared.ErrInsufficientStock
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		found, err := goods.FindByID(ctx, good.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentStock.IsZero(), "stock must be untouched after rollback")

		count, err := events.CountByFinishedGood(ctx, good.ID)
		require.NoError(t, err)
		assert.Zero(t, count, "no audit record may survive a rollback")
	})

	t.Run("a stale version aborts the transaction", func(t *testing.T) {
		good := newGood(t)

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			stale := *good
			stale.Version = good.Version + 5
			return repos.FinishedGoodRepo().SaveWithLock(ctx, &stale)
		})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
