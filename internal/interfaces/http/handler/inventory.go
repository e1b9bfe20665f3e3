package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcat "github.com/stockpilot/backend/internal/application/catalog"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
)

// InventoryHandler exposes read access to stock levels and the audit trail,
// plus raw-material master data maintained through the catalog service.
type InventoryHandler struct {
	BaseHandler
	catalog   *appcat.CatalogService
	goods     inventory.FinishedGoodRepository
	tagEvents inventory.TagEventRepository
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	catalogService *appcat.CatalogService,
	goods inventory.FinishedGoodRepository,
	tagEvents inventory.TagEventRepository,
) *InventoryHandler {
	return &InventoryHandler{catalog: catalogService, goods: goods, tagEvents: tagEvents}
}

// FinishedGoodResponse is the wire form of a finished-good stock record
type FinishedGoodResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductConfigID  uuid.UUID       `json:"product_config_id"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	InManufacturing  decimal.Decimal `json:"in_manufacturing"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	Threshold        decimal.Decimal `json:"threshold"`
	Shortfall        decimal.Decimal `json:"shortfall"`
	Version          int64           `json:"version"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toFinishedGoodResponse(good *inventory.FinishedGood) FinishedGoodResponse {
	return FinishedGoodResponse{
		ID:               good.ID,
		ProductConfigID:  good.ProductConfigID,
		CurrentStock:     good.CurrentStock,
		InManufacturing:  good.InManufacturing,
		RequiredQuantity: good.RequiredQuantity,
		Threshold:        good.Threshold,
		Shortfall:        good.Shortfall(),
		Version:          int64(good.Version),
		UpdatedAt:        good.UpdatedAt,
	}
}

// RawMaterialResponse is the wire form of a raw-material stock record
type RawMaterialResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	MinimumStock     decimal.Decimal `json:"minimum_stock"`
	InProcurement    decimal.Decimal `json:"in_procurement"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	Shortfall        decimal.Decimal `json:"shortfall"`
	Status           string          `json:"status"`
	Version          int64           `json:"version"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toRawMaterialResponse(material *inventory.RawMaterial) RawMaterialResponse {
	return RawMaterialResponse{
		ID:               material.ID,
		Name:             material.Name,
		Unit:             material.Unit,
		CurrentStock:     material.CurrentStock,
		MinimumStock:     material.MinimumStock,
		InProcurement:    material.InProcurement,
		RequiredQuantity: material.RequiredQuantity,
		Shortfall:        material.Shortfall(),
		Status:           material.Status().String(),
		Version:          int64(material.Version),
		UpdatedAt:        material.UpdatedAt,
	}
}

// TagEventResponse is one audit-trail record
type TagEventResponse struct {
	ID             uuid.UUID       `json:"id"`
	TagID          string          `json:"tag_id,omitempty"`
	FinishedGoodID uuid.UUID       `json:"finished_good_id"`
	Action         string          `json:"action"`
	Quantity       decimal.Decimal `json:"quantity"`
	PreviousStock  decimal.Decimal `json:"previous_stock"`
	NewStock       decimal.Decimal `json:"new_stock"`
	UserID         uuid.UUID       `json:"user_id"`
	CustomerID     *uuid.UUID      `json:"customer_id,omitempty"`
	OrderID        *uuid.UUID      `json:"order_id,omitempty"`
	OrderItemID    *uuid.UUID      `json:"order_item_id,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toTagEventResponse(event *inventory.TagEvent) TagEventResponse {
	return TagEventResponse{
		ID:             event.ID,
		TagID:          event.TagID,
		FinishedGoodID: event.FinishedGoodID,
		Action:         string(event.Action),
		Quantity:       event.Quantity,
		PreviousStock:  event.PreviousStock,
		NewStock:       event.NewStock,
		UserID:         event.UserID,
		CustomerID:     event.CustomerID,
		OrderID:        event.OrderID,
		OrderItemID:    event.OrderItemID,
		Reason:         event.Reason,
		CreatedAt:      event.CreatedAt,
	}
}

// ListFinishedGoods handles GET /api/v1/finished-goods
func (h *InventoryHandler) ListFinishedGoods(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	filter := req.ToFilter()

	total, err := h.goods.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	goods, err := h.goods.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]FinishedGoodResponse, 0, len(goods))
	for i := range goods {
		items = append(items, toFinishedGoodResponse(&goods[i]))
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetFinishedGood handles GET /api/v1/finished-goods/:id
func (h *InventoryHandler) GetFinishedGood(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid finished good ID")
		return
	}

	good, err := h.goods.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toFinishedGoodResponse(good))
}

// GetFinishedGoodHistory handles GET /api/v1/finished-goods/:id/tag-events.
// The trail is returned in chronological order.
func (h *InventoryHandler) GetFinishedGoodHistory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid finished good ID")
		return
	}
	if _, err := h.goods.FindByID(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	events, err := h.tagEvents.FindByFinishedGood(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]TagEventResponse, 0, len(events))
	for i := range events {
		items = append(items, toTagEventResponse(&events[i]))
	}
	h.Success(c, items)
}

// SearchTagEvents handles GET /api/v1/tag-events, newest first
func (h *InventoryHandler) SearchTagEvents(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	base := req.ToFilter()

	filter := inventory.TagEventFilter{
		TagID:    c.Query("tag_id"),
		Action:   inventory.TagAction(c.Query("action")),
		Page:     base.Page,
		PageSize: base.PageSize,
	}
	if raw := c.Query("finished_good_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid finished good ID")
			return
		}
		filter.FinishedGoodID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid user ID")
			return
		}
		filter.UserID = &id
	}

	events, total, err := h.tagEvents.Search(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]TagEventResponse, 0, len(events))
	for i := range events {
		items = append(items, toTagEventResponse(&events[i]))
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// CreateRawMaterialRequest is a new raw-material definition
type CreateRawMaterialRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// CreateRawMaterial handles POST /api/v1/raw-materials
func (h *InventoryHandler) CreateRawMaterial(c *gin.Context) {
	var req CreateRawMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	material, err := h.catalog.CreateRawMaterial(c.Request.Context(), appcat.CreateRawMaterialInput{
		Name:         req.Name,
		Unit:         req.Unit,
		MinimumStock: req.MinimumStock,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toRawMaterialResponse(material))
}

// GetRawMaterial handles GET /api/v1/raw-materials/:id
func (h *InventoryHandler) GetRawMaterial(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid raw material ID")
		return
	}

	material, err := h.catalog.GetRawMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRawMaterialResponse(material))
}

// ListRawMaterials handles GET /api/v1/raw-materials
func (h *InventoryHandler) ListRawMaterials(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.catalog.ListRawMaterials(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]RawMaterialResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toRawMaterialResponse(&page.Items[i]))
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// MinimumStockRequest updates the safety minimum for a raw material
type MinimumStockRequest struct {
	MinimumStock decimal.Decimal `json:"minimum_stock" binding:"required"`
}

// SetMinimumStock handles PUT /api/v1/raw-materials/:id/minimum-stock
func (h *InventoryHandler) SetMinimumStock(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid raw material ID")
		return
	}
	var req MinimumStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	material, err := h.catalog.SetMinimumStock(c.Request.Context(), id, req.MinimumStock)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRawMaterialResponse(material))
}
