package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stockpilot/backend/internal/application/planning"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
)

// RecalculationHandler accepts manual recalculation requests. Requests are
// queued for the background worker rather than executed inline, so the
// endpoint answers 202 and the worker coalesces bursts into one run.
type RecalculationHandler struct {
	BaseHandler
	dirty  *planning.DirtySet
	orders orders.OrderRepository
}

// NewRecalculationHandler creates a new RecalculationHandler
func NewRecalculationHandler(dirty *planning.DirtySet, orderRepo orders.OrderRepository) *RecalculationHandler {
	return &RecalculationHandler{dirty: dirty, orders: orderRepo}
}

// RecalculationRequest selects the scope of a manual recalculation
type RecalculationRequest struct {
	Scope            string      `json:"scope" binding:"required,oneof=order product_config full"`
	OrderID          uuid.UUID   `json:"order_id"`
	ProductConfigIDs []uuid.UUID `json:"product_config_ids"`
}

// RecalculationAccepted reports what was queued
type RecalculationAccepted struct {
	Scope            string      `json:"scope"`
	ProductConfigIDs []uuid.UUID `json:"product_config_ids,omitempty"`
}

// Trigger handles POST /api/v1/recalculations
func (h *RecalculationHandler) Trigger(c *gin.Context) {
	var req RecalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	switch planning.ScopeType(req.Scope) {
	case planning.ScopeFull:
		h.dirty.MarkFull()
		h.Accepted(c, RecalculationAccepted{Scope: req.Scope})

	case planning.ScopeProductConfig:
		if len(req.ProductConfigIDs) == 0 {
			h.BadRequest(c, "product_config_ids is required for scope product_config")
			return
		}
		h.dirty.MarkConfigs(req.ProductConfigIDs...)
		h.Accepted(c, RecalculationAccepted{Scope: req.Scope, ProductConfigIDs: req.ProductConfigIDs})

	case planning.ScopeOrder:
		if req.OrderID == uuid.Nil {
			h.BadRequest(c, "order_id is required for scope order")
			return
		}
		order, err := h.orders.FindByID(c.Request.Context(), req.OrderID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		configIDs := make([]uuid.UUID, 0, len(order.Items))
		seen := make(map[uuid.UUID]bool, len(order.Items))
		for i := range order.Items {
			id := order.Items[i].ProductConfigID
			if !seen[id] {
				seen[id] = true
				configIDs = append(configIDs, id)
			}
		}
		h.dirty.MarkConfigs(configIDs...)
		h.Accepted(c, RecalculationAccepted{Scope: req.Scope, ProductConfigIDs: configIDs})

	default:
		h.BadRequest(c, "Unknown recalculation scope")
	}
}
