package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// TagAction represents the direction of a tag operation
type TagAction string

const (
	// TagActionIn moves a scanned tag's units into stock
	TagActionIn TagAction = "TAG_IN"
	// TagActionOut moves units out of stock against an order item
	TagActionOut TagAction = "TAG_OUT"
	// TagActionAdjust is a manual stock correction without a physical tag
	TagActionAdjust TagAction = "ADJUSTMENT"
)

// String returns the string representation of TagAction
func (a TagAction) String() string {
	return string(a)
}

// IsValid returns true if the action is a known tag action
func (a TagAction) IsValid() bool {
	switch a {
	case TagActionIn, TagActionOut, TagActionAdjust:
		return true
	}
	return false
}

// TagEvent is the append-only audit record written for every successful stock
// mutation. It is the sole source of truth for why stock changed: replaying
// all events for a finished good from zero reproduces its current stock.
type TagEvent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Empty for manual adjustments. The partial unique index backs the
	// at-most-once tag-in guarantee against concurrent scans; the in-
	// transaction existence check alone cannot see a parallel uncommitted
	// insert on another finished good.
	TagID          string          `gorm:"size:100;index;index:uq_tag_events_tag_in,unique,where:action = 'TAG_IN'"`
	FinishedGoodID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Action         TagAction       `gorm:"size:20;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed delta applied to stock
	PreviousStock  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewStock       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid"`
	OrderID        *uuid.UUID      `gorm:"type:uuid;index"`
	OrderItemID    *uuid.UUID      `gorm:"type:uuid;index"`
	Reason         string          `gorm:"size:500"`
	CreatedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TagEvent) TableName() string {
	return "tag_events"
}

// NewTagEvent creates an audit record for an applied stock delta
func NewTagEvent(finishedGoodID uuid.UUID, action TagAction, tagID string, quantity, previousStock, newStock decimal.Decimal, userID uuid.UUID) (*TagEvent, error) {
	if finishedGoodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FINISHED_GOOD", "Finished good ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Unknown tag action")
	}
	if action != TagActionAdjust && tagID == "" {
		return nil, shared.NewDomainError("INVALID_TAG", "Tag ID is required for tag operations")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	return &TagEvent{
		ID:             uuid.New(),
		TagID:          tagID,
		FinishedGoodID: finishedGoodID,
		Action:         action,
		Quantity:       quantity,
		PreviousStock:  previousStock,
		NewStock:       newStock,
		UserID:         userID,
		CreatedAt:      time.Now(),
	}, nil
}

// LinkOrder attaches the customer/order/item references for a tag out
func (e *TagEvent) LinkOrder(customerID, orderID, orderItemID uuid.UUID) {
	e.CustomerID = &customerID
	e.OrderID = &orderID
	e.OrderItemID = &orderItemID
}
