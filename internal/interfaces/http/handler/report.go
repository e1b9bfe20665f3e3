package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/cache"
)

// ReportHandler serves derived shortfall and supply reports. Payloads are
// snapshot-cached for a short TTL because the dashboard polls them and the
// recalculation worker keeps the underlying quantities fresh anyway.
type ReportHandler struct {
	BaseHandler
	goods     inventory.FinishedGoodRepository
	materials inventory.RawMaterialRepository
	configs   catalog.ProductConfigRepository
	snapshots cache.SnapshotCache
	ttl       time.Duration
	logger    *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	goods inventory.FinishedGoodRepository,
	materials inventory.RawMaterialRepository,
	configs catalog.ProductConfigRepository,
	snapshots cache.SnapshotCache,
	ttl time.Duration,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		goods:     goods,
		materials: materials,
		configs:   configs,
		snapshots: snapshots,
		ttl:       ttl,
		logger:    logger,
	}
}

// FinishedGoodShortfallRow is one under-supplied finished good
type FinishedGoodShortfallRow struct {
	FinishedGoodID   uuid.UUID       `json:"finished_good_id"`
	ProductConfigID  uuid.UUID       `json:"product_config_id"`
	Code             string          `json:"code,omitempty"`
	Category         string          `json:"category,omitempty"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	InManufacturing  decimal.Decimal `json:"in_manufacturing"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	Threshold        decimal.Decimal `json:"threshold"`
	Shortfall        decimal.Decimal `json:"shortfall"`
}

// MaterialShortfallRow is one raw material and its supply position
type MaterialShortfallRow struct {
	RawMaterialID    uuid.UUID       `json:"raw_material_id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	MinimumStock     decimal.Decimal `json:"minimum_stock"`
	InProcurement    decimal.Decimal `json:"in_procurement"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	Shortfall        decimal.Decimal `json:"shortfall"`
	Status           string          `json:"status"`
}

// ShortfallReport lists everything currently under-supplied
type ShortfallReport struct {
	FinishedGoods []FinishedGoodShortfallRow `json:"finished_goods"`
	Materials     []MaterialShortfallRow     `json:"materials"`
	GeneratedAt   time.Time                  `json:"generated_at"`
}

// MaterialReport lists every raw material with its supply classification
type MaterialReport struct {
	Materials   []MaterialShortfallRow `json:"materials"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// DashboardSummary is the headline numbers for the overview page
type DashboardSummary struct {
	FinishedGoods          int       `json:"finished_goods"`
	FinishedGoodShortfalls int       `json:"finished_good_shortfalls"`
	Materials              int       `json:"materials"`
	CriticalMaterials      int       `json:"critical_materials"`
	LowMaterials           int       `json:"low_materials"`
	GeneratedAt            time.Time `json:"generated_at"`
}

// GetShortfallReport handles GET /api/v1/reports/shortfalls
func (h *ReportHandler) GetShortfallReport(c *gin.Context) {
	h.serveSnapshot(c, cache.KeyShortfallReport, func(ctx context.Context) (any, error) {
		return h.buildShortfallReport(ctx)
	})
}

// GetMaterialReport handles GET /api/v1/reports/materials
func (h *ReportHandler) GetMaterialReport(c *gin.Context) {
	h.serveSnapshot(c, cache.KeyMaterialReport, func(ctx context.Context) (any, error) {
		materials, err := h.materialRows(ctx, false)
		if err != nil {
			return nil, err
		}
		return &MaterialReport{Materials: materials, GeneratedAt: time.Now().UTC()}, nil
	})
}

// GetDashboardSummary handles GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	h.serveSnapshot(c, cache.KeyDashboardSummary, func(ctx context.Context) (any, error) {
		return h.buildDashboardSummary(ctx)
	})
}

// serveSnapshot returns the cached payload when present, otherwise builds,
// caches and returns a fresh one. Cache errors degrade to a rebuild.
func (h *ReportHandler) serveSnapshot(c *gin.Context, key string, build func(ctx context.Context) (any, error)) {
	ctx := c.Request.Context()

	if payload, found, err := h.snapshots.Get(ctx, key); err != nil {
		h.logger.Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		h.Success(c, json.RawMessage(payload))
		return
	}

	report, err := build(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.snapshots.Set(ctx, key, payload, h.ttl); err != nil {
		h.logger.Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
	}

	h.Success(c, json.RawMessage(payload))
}

func (h *ReportHandler) buildShortfallReport(ctx context.Context) (*ShortfallReport, error) {
	goods, err := h.goods.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	short := make([]inventory.FinishedGood, 0)
	configIDs := make([]uuid.UUID, 0)
	for i := range goods {
		if goods[i].Shortfall().IsPositive() {
			short = append(short, goods[i])
			configIDs = append(configIDs, goods[i].ProductConfigID)
		}
	}

	configByID := make(map[uuid.UUID]*catalog.ProductConfig, len(configIDs))
	if len(configIDs) > 0 {
		configs, err := h.configs.FindByIDs(ctx, configIDs)
		if err != nil {
			return nil, err
		}
		for i := range configs {
			configByID[configs[i].ID] = &configs[i]
		}
	}

	goodRows := make([]FinishedGoodShortfallRow, 0, len(short))
	for i := range short {
		good := &short[i]
		row := FinishedGoodShortfallRow{
			FinishedGoodID:   good.ID,
			ProductConfigID:  good.ProductConfigID,
			CurrentStock:     good.CurrentStock,
			InManufacturing:  good.InManufacturing,
			RequiredQuantity: good.RequiredQuantity,
			Threshold:        good.Threshold,
			Shortfall:        good.Shortfall(),
		}
		if cfg, ok := configByID[good.ProductConfigID]; ok {
			row.Code = cfg.Code
			row.Category = cfg.Category
		}
		goodRows = append(goodRows, row)
	}

	materialRows, err := h.materialRows(ctx, true)
	if err != nil {
		return nil, err
	}

	return &ShortfallReport{
		FinishedGoods: goodRows,
		Materials:     materialRows,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// materialRows returns every raw material, or only those with a positive
// shortfall when shortOnly is set
func (h *ReportHandler) materialRows(ctx context.Context, shortOnly bool) ([]MaterialShortfallRow, error) {
	materials, err := h.materials.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	rows := make([]MaterialShortfallRow, 0, len(materials))
	for i := range materials {
		m := &materials[i]
		shortfall := m.Shortfall()
		if shortOnly && !shortfall.IsPositive() {
			continue
		}
		rows = append(rows, MaterialShortfallRow{
			RawMaterialID:    m.ID,
			Name:             m.Name,
			Unit:             m.Unit,
			CurrentStock:     m.CurrentStock,
			MinimumStock:     m.MinimumStock,
			InProcurement:    m.InProcurement,
			RequiredQuantity: m.RequiredQuantity,
			Shortfall:        shortfall,
			Status:           m.Status().String(),
		})
	}
	return rows, nil
}

func (h *ReportHandler) buildDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	goods, err := h.goods.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	materials, err := h.materials.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		FinishedGoods: len(goods),
		Materials:     len(materials),
		GeneratedAt:   time.Now().UTC(),
	}
	for i := range goods {
		if goods[i].Shortfall().IsPositive() {
			summary.FinishedGoodShortfalls++
		}
	}
	for i := range materials {
		switch materials[i].Status() {
		case inventory.MaterialStatusCritical:
			summary.CriticalMaterials++
		case inventory.MaterialStatusLow:
			summary.LowMaterials++
		}
	}
	return summary, nil
}
