package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apporders "github.com/stockpilot/backend/internal/application/orders"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
)

// OrderHandler exposes customer orders and their fulfillment lifecycle
type OrderHandler struct {
	BaseHandler
	orders *apporders.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *apporders.OrderService) *OrderHandler {
	return &OrderHandler{orders: orderService}
}

// OrderItemRequest is one requested line item
type OrderItemRequest struct {
	ProductConfigID uuid.UUID       `json:"product_config_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateOrderRequest is a new customer order
type CreateOrderRequest struct {
	OrderNumber string             `json:"order_number" binding:"required,max=50"`
	CustomerID  uuid.UUID          `json:"customer_id" binding:"required"`
	DueDate     *time.Time         `json:"due_date"`
	Remark      string             `json:"remark" binding:"max=500"`
	Items       []OrderItemRequest `json:"items" binding:"dive"`
}

// UpdateOrderRequest carries editable header fields
type UpdateOrderRequest struct {
	DueDate *time.Time `json:"due_date"`
	Remark  *string    `json:"remark" binding:"omitempty,max=500"`
}

// OrderItemResponse is the wire form of a line item
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductConfigID   uuid.UUID       `json:"product_config_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Readiness         string          `json:"readiness"`
	Status            string          `json:"status"`
	Position          int             `json:"position"`
}

// OrderResponse is the wire form of an order
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	OrderNumber string              `json:"order_number"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	Status      string              `json:"status"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	Remark      string              `json:"remark,omitempty"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
	Items       []OrderItemResponse `json:"items"`
	Version     int64               `json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func toOrderResponse(order *orders.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, OrderItemResponse{
			ID:                item.ID,
			ProductConfigID:   item.ProductConfigID,
			Quantity:          item.Quantity,
			FulfilledQuantity: item.FulfilledQuantity,
			RemainingQuantity: item.Remaining(),
			Readiness:         string(item.Readiness),
			Status:            string(item.Status),
			Position:          item.Position,
		})
	}
	return OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Status:      string(order.Status),
		DueDate:     order.DueDate,
		Remark:      order.Remark,
		DeliveredAt: order.DeliveredAt,
		Items:       items,
		Version:     int64(order.Version),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items := make([]apporders.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, apporders.OrderItemInput{
			ProductConfigID: it.ProductConfigID,
			Quantity:        it.Quantity,
		})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), apporders.CreateOrderInput{
		OrderNumber: req.OrderNumber,
		CustomerID:  req.CustomerID,
		DueDate:     req.DueDate,
		Remark:      req.Remark,
		Items:       items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toOrderResponse(order))
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// GetByNumber handles GET /api/v1/orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orders.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]any{"status": status}
	}

	page, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toOrderResponse(&page.Items[i]))
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /api/v1/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), id, apporders.UpdateOrderInput{
		DueDate: req.DueDate,
		Remark:  req.Remark,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// AddItem handles POST /api/v1/orders/:id/items
func (h *OrderHandler) AddItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orders.AddItem(c.Request.Context(), id, req.ProductConfigID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// ItemQuantityRequest updates an ordered quantity
type ItemQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateItemQuantity handles PUT /api/v1/orders/:id/items/:itemId/quantity
func (h *OrderHandler) UpdateItemQuantity(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid order item ID")
		return
	}
	var req ItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orders.UpdateItemQuantity(c.Request.Context(), orderID, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// RemoveItem handles DELETE /api/v1/orders/:id/items/:itemId
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid order item ID")
		return
	}

	order, err := h.orders.RemoveItem(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// ItemReadinessRequest carries a production readiness signal
type ItemReadinessRequest struct {
	Readiness string `json:"readiness" binding:"required,oneof=NONE IN_PROGRESS READY"`
}

// SetItemReadiness handles PUT /api/v1/orders/:id/items/:itemId/readiness
func (h *OrderHandler) SetItemReadiness(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid order item ID")
		return
	}
	var req ItemReadinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orders.SetItemReadiness(c.Request.Context(), orderID, itemID, orders.ReadinessSignal(req.Readiness))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// MarkItemDelivered handles POST /api/v1/orders/:id/items/:itemId/delivered
func (h *OrderHandler) MarkItemDelivered(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid order item ID")
		return
	}

	order, err := h.orders.MarkItemDelivered(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// Delete handles DELETE /api/v1/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
