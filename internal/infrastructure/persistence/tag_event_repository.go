package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTagEventRepository implements TagEventRepository using GORM.
// Records are append-only; there is deliberately no update or delete path.
type GormTagEventRepository struct {
	db *gorm.DB
}

// NewGormTagEventRepository creates a new GormTagEventRepository
func NewGormTagEventRepository(db *gorm.DB) *GormTagEventRepository {
	return &GormTagEventRepository{db: db}
}

// Append writes one audit record. The unique tag-in index catches a
// concurrent scan of the same tag that the existence check cannot see.
func (r *GormTagEventRepository) Append(ctx context.Context, event *inventory.TagEvent) error {
	err := r.db.WithContext(ctx).Create(event).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrDuplicateTag
	}
	return err
}

// ExistsTagIn reports whether a tag ID has already been consumed by a tag-in
func (r *GormTagEventRepository) ExistsTagIn(ctx context.Context, tagID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.TagEvent{}).
		Where("tag_id = ? AND action = ?", tagID, inventory.TagActionIn).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByFinishedGood returns the audit trail for one finished good in
// chronological order
func (r *GormTagEventRepository) FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) ([]inventory.TagEvent, error) {
	var events []inventory.TagEvent
	if err := r.db.WithContext(ctx).
		Where("finished_good_id = ?", finishedGoodID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Search returns audit records matching the filter, newest first
func (r *GormTagEventRepository) Search(ctx context.Context, filter inventory.TagEventFilter) ([]inventory.TagEvent, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.TagEvent{})

	if filter.TagID != "" {
		query = query.Where("tag_id = ?", filter.TagID)
	}
	if filter.FinishedGoodID != nil {
		query = query.Where("finished_good_id = ?", *filter.FinishedGoodID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var events []inventory.TagEvent
	if err := query.Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// CountByFinishedGood counts audit records for one finished good
func (r *GormTagEventRepository) CountByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.TagEvent{}).
		Where("finished_good_id = ?", finishedGoodID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTagEventRepository implements TagEventRepository
var _ inventory.TagEventRepository = (*GormTagEventRepository)(nil)
