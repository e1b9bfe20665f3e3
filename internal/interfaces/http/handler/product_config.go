package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcat "github.com/stockpilot/backend/internal/application/catalog"
	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
)

// ProductConfigHandler exposes SKU definitions and their bills of materials
type ProductConfigHandler struct {
	BaseHandler
	catalog *appcat.CatalogService
}

// NewProductConfigHandler creates a new ProductConfigHandler
func NewProductConfigHandler(catalogService *appcat.CatalogService) *ProductConfigHandler {
	return &ProductConfigHandler{catalog: catalogService}
}

// MaterialEdgeRequest is one bill-of-materials edge
type MaterialEdgeRequest struct {
	RawMaterialID   uuid.UUID       `json:"raw_material_id" binding:"required"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" binding:"required"`
	Unit            string          `json:"unit" binding:"required,max=20"`
}

// CreateProductConfigRequest is a new SKU definition
type CreateProductConfigRequest struct {
	Category    string                `json:"category" binding:"required,max=100"`
	Subcategory string                `json:"subcategory" binding:"required,max=100"`
	Size        string                `json:"size" binding:"max=50"`
	Weight      decimal.Decimal       `json:"weight"`
	Threshold   decimal.Decimal       `json:"threshold"`
	Materials   []MaterialEdgeRequest `json:"materials" binding:"dive"`
}

// MaterialEdgeResponse is one bill-of-materials edge in a response
type MaterialEdgeResponse struct {
	ID              uuid.UUID       `json:"id"`
	RawMaterialID   uuid.UUID       `json:"raw_material_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Unit            string          `json:"unit"`
	Position        int             `json:"position"`
}

// ProductConfigResponse is the wire form of a product configuration
type ProductConfigResponse struct {
	ID          uuid.UUID              `json:"id"`
	Code        string                 `json:"code"`
	Category    string                 `json:"category"`
	Subcategory string                 `json:"subcategory"`
	Size        string                 `json:"size,omitempty"`
	Weight      decimal.Decimal        `json:"weight"`
	Threshold   decimal.Decimal        `json:"threshold"`
	Active      bool                   `json:"active"`
	Materials   []MaterialEdgeResponse `json:"materials"`
	Version     int64                  `json:"version"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func toProductConfigResponse(cfg *catalog.ProductConfig) ProductConfigResponse {
	materials := make([]MaterialEdgeResponse, 0, len(cfg.Materials))
	for _, m := range cfg.Materials {
		materials = append(materials, MaterialEdgeResponse{
			ID:              m.ID,
			RawMaterialID:   m.RawMaterialID,
			QuantityPerUnit: m.QuantityPerUnit,
			Unit:            m.Unit,
			Position:        m.Position,
		})
	}
	return ProductConfigResponse{
		ID:          cfg.ID,
		Code:        cfg.Code,
		Category:    cfg.Category,
		Subcategory: cfg.Subcategory,
		Size:        cfg.Size,
		Weight:      cfg.Weight,
		Threshold:   cfg.Threshold,
		Active:      cfg.Active,
		Materials:   materials,
		Version:     int64(cfg.Version),
		CreatedAt:   cfg.CreatedAt,
		UpdatedAt:   cfg.UpdatedAt,
	}
}

// Create handles POST /api/v1/product-configs
func (h *ProductConfigHandler) Create(c *gin.Context) {
	var req CreateProductConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	materials := make([]appcat.MaterialInput, 0, len(req.Materials))
	for _, m := range req.Materials {
		materials = append(materials, appcat.MaterialInput{
			RawMaterialID:   m.RawMaterialID,
			QuantityPerUnit: m.QuantityPerUnit,
			Unit:            m.Unit,
		})
	}

	cfg, err := h.catalog.CreateProductConfig(c.Request.Context(), appcat.CreateProductConfigInput{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Size:        req.Size,
		Weight:      req.Weight,
		Threshold:   req.Threshold,
		Materials:   materials,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProductConfigResponse(cfg))
}

// Get handles GET /api/v1/product-configs/:id
func (h *ProductConfigHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product config ID")
		return
	}

	cfg, err := h.catalog.GetProductConfig(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductConfigResponse(cfg))
}

// GetByCode handles GET /api/v1/product-configs/code/:code
func (h *ProductConfigHandler) GetByCode(c *gin.Context) {
	cfg, err := h.catalog.GetProductConfigByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductConfigResponse(cfg))
}

// List handles GET /api/v1/product-configs
func (h *ProductConfigHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.catalog.ListProductConfigs(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ProductConfigResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toProductConfigResponse(&page.Items[i]))
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// ThresholdRequest updates the safety-stock threshold
type ThresholdRequest struct {
	Threshold decimal.Decimal `json:"threshold" binding:"required"`
}

// SetThreshold handles PUT /api/v1/product-configs/:id/threshold
func (h *ProductConfigHandler) SetThreshold(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product config ID")
		return
	}
	var req ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	cfg, err := h.catalog.SetThreshold(c.Request.Context(), id, req.Threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductConfigResponse(cfg))
}

// ReplaceMaterialsRequest swaps the whole bill of materials
type ReplaceMaterialsRequest struct {
	Materials []MaterialEdgeRequest `json:"materials" binding:"required,dive"`
}

// ReplaceMaterials handles PUT /api/v1/product-configs/:id/materials
func (h *ProductConfigHandler) ReplaceMaterials(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product config ID")
		return
	}
	var req ReplaceMaterialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	edges := make([]appcat.MaterialInput, 0, len(req.Materials))
	for _, m := range req.Materials {
		edges = append(edges, appcat.MaterialInput{
			RawMaterialID:   m.RawMaterialID,
			QuantityPerUnit: m.QuantityPerUnit,
			Unit:            m.Unit,
		})
	}

	cfg, err := h.catalog.ReplaceMaterials(c.Request.Context(), id, edges)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductConfigResponse(cfg))
}

// ActiveRequest toggles the active flag
type ActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles PUT /api/v1/product-configs/:id/active
func (h *ProductConfigHandler) SetActive(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product config ID")
		return
	}
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	cfg, err := h.catalog.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductConfigResponse(cfg))
}

// Delete handles DELETE /api/v1/product-configs/:id
func (h *ProductConfigHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product config ID")
		return
	}

	if err := h.catalog.DeleteProductConfig(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
