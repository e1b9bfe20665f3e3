package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/stockpilot/backend/internal/application/inventory"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
)

// StockHandler exposes the stock ledger: tag scans, manual adjustments and
// externally reported reservation quantities. Every mutation requires the
// acting user for the audit trail.
type StockHandler struct {
	BaseHandler
	ledger *appinv.StockLedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledger *appinv.StockLedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// TagInRequest is a tag-in scan
type TagInRequest struct {
	TagID          string          `json:"tag_id" binding:"required,max=100"`
	FinishedGoodID uuid.UUID       `json:"finished_good_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
}

// TagIn handles POST /api/v1/stock/tag-in
func (h *StockHandler) TagIn(c *gin.Context) {
	var req TagInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledger.TagIn(c.Request.Context(), appinv.TagInInput{
		TagID:          req.TagID,
		FinishedGoodID: req.FinishedGoodID,
		Quantity:       req.Quantity,
		UserID:         userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// TagOutRequest is a tag-out scan against an order item
type TagOutRequest struct {
	TagID          string          `json:"tag_id" binding:"required,max=100"`
	FinishedGoodID uuid.UUID       `json:"finished_good_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	CustomerID     uuid.UUID       `json:"customer_id" binding:"required"`
	OrderID        uuid.UUID       `json:"order_id" binding:"required"`
	OrderItemID    uuid.UUID       `json:"order_item_id" binding:"required"`
}

// TagOut handles POST /api/v1/stock/tag-out
func (h *StockHandler) TagOut(c *gin.Context) {
	var req TagOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledger.TagOut(c.Request.Context(), appinv.TagOutInput{
		TagID:          req.TagID,
		FinishedGoodID: req.FinishedGoodID,
		Quantity:       req.Quantity,
		UserID:         userID,
		CustomerID:     req.CustomerID,
		OrderID:        req.OrderID,
		OrderItemID:    req.OrderItemID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AdjustStockRequest is a manual stock correction
type AdjustStockRequest struct {
	FinishedGoodID uuid.UUID       `json:"finished_good_id" binding:"required"`
	Delta          decimal.Decimal `json:"delta" binding:"required"`
	Reason         string          `json:"reason" binding:"required,max=500"`
}

// AdjustStock handles POST /api/v1/stock/adjustments
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledger.AdjustStock(c.Request.Context(), appinv.AdjustStockInput{
		FinishedGoodID: req.FinishedGoodID,
		Delta:          req.Delta,
		Reason:         req.Reason,
		UserID:         userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MaterialMovementRequest is a signed raw-material stock movement
type MaterialMovementRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason" binding:"max=500"`
}

// ApplyMaterialMovement handles POST /api/v1/raw-materials/:id/movements
func (h *StockHandler) ApplyMaterialMovement(c *gin.Context) {
	materialID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid raw material ID")
		return
	}
	var req MaterialMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledger.ApplyMaterialDelta(c.Request.Context(), appinv.MaterialDeltaInput{
		RawMaterialID: materialID,
		Delta:         req.Delta,
		Reason:        req.Reason,
		UserID:        userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ReservationRequest carries an externally reported reservation quantity
type ReservationRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ReportManufacturing handles PUT /api/v1/finished-goods/:id/manufacturing-quantity
func (h *StockHandler) ReportManufacturing(c *gin.Context) {
	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid finished good ID")
		return
	}
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.ledger.ReportManufacturingQuantity(c.Request.Context(), goodID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReportProcurement handles PUT /api/v1/raw-materials/:id/procurement-quantity
func (h *StockHandler) ReportProcurement(c *gin.Context) {
	materialID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid raw material ID")
		return
	}
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.ledger.ReportProcurementQuantity(c.Request.Context(), materialID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
