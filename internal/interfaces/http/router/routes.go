package router

import (
	"github.com/gin-gonic/gin"

	"github.com/stockpilot/backend/internal/interfaces/http/handler"
)

// Handlers bundles every route handler the API mounts
type Handlers struct {
	Stock         *handler.StockHandler
	Orders        *handler.OrderHandler
	ProductConfig *handler.ProductConfigHandler
	Inventory     *handler.InventoryHandler
	Reports       *handler.ReportHandler
	Recalculation *handler.RecalculationHandler
	System        *handler.SystemHandler
}

// RegisterAPIRoutes mounts all versioned API routes on the router
func RegisterAPIRoutes(r *Router, h Handlers) {
	stock := NewDomainGroup("stock", "/stock")
	stock.POST("/tag-in", h.Stock.TagIn)
	stock.POST("/tag-out", h.Stock.TagOut)
	stock.POST("/adjustments", h.Stock.AdjustStock)
	r.Register(stock)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Orders.Create)
	orders.GET("", h.Orders.List)
	orders.GET("/number/:number", h.Orders.GetByNumber)
	orders.GET("/:id", h.Orders.Get)
	orders.PUT("/:id", h.Orders.Update)
	orders.DELETE("/:id", h.Orders.Delete)
	orders.POST("/:id/items", h.Orders.AddItem)
	orders.PUT("/:id/items/:itemId/quantity", h.Orders.UpdateItemQuantity)
	orders.PUT("/:id/items/:itemId/readiness", h.Orders.SetItemReadiness)
	orders.POST("/:id/items/:itemId/delivered", h.Orders.MarkItemDelivered)
	orders.DELETE("/:id/items/:itemId", h.Orders.RemoveItem)
	r.Register(orders)

	configs := NewDomainGroup("product-configs", "/product-configs")
	configs.POST("", h.ProductConfig.Create)
	configs.GET("", h.ProductConfig.List)
	configs.GET("/code/:code", h.ProductConfig.GetByCode)
	configs.GET("/:id", h.ProductConfig.Get)
	configs.PUT("/:id/threshold", h.ProductConfig.SetThreshold)
	configs.PUT("/:id/materials", h.ProductConfig.ReplaceMaterials)
	configs.PUT("/:id/active", h.ProductConfig.SetActive)
	configs.DELETE("/:id", h.ProductConfig.Delete)
	r.Register(configs)

	goods := NewDomainGroup("finished-goods", "/finished-goods")
	goods.GET("", h.Inventory.ListFinishedGoods)
	goods.GET("/:id", h.Inventory.GetFinishedGood)
	goods.GET("/:id/tag-events", h.Inventory.GetFinishedGoodHistory)
	goods.PUT("/:id/manufacturing-quantity", h.Stock.ReportManufacturing)
	r.Register(goods)

	materials := NewDomainGroup("raw-materials", "/raw-materials")
	materials.POST("", h.Inventory.CreateRawMaterial)
	materials.GET("", h.Inventory.ListRawMaterials)
	materials.GET("/:id", h.Inventory.GetRawMaterial)
	materials.PUT("/:id/minimum-stock", h.Inventory.SetMinimumStock)
	materials.PUT("/:id/procurement-quantity", h.Stock.ReportProcurement)
	materials.POST("/:id/movements", h.Stock.ApplyMaterialMovement)
	r.Register(materials)

	events := NewDomainGroup("tag-events", "/tag-events")
	events.GET("", h.Inventory.SearchTagEvents)
	r.Register(events)

	reports := NewDomainGroup("reports", "/reports")
	reports.GET("/shortfalls", h.Reports.GetShortfallReport)
	reports.GET("/materials", h.Reports.GetMaterialReport)
	reports.GET("/dashboard", h.Reports.GetDashboardSummary)
	r.Register(reports)

	recalc := NewDomainGroup("recalculations", "/recalculations")
	recalc.POST("", h.Recalculation.Trigger)
	r.Register(recalc)
}

// RegisterSystemRoutes mounts the unversioned health probes directly on the
// engine so they stay outside the API prefix.
func RegisterSystemRoutes(engine *gin.Engine, h *handler.SystemHandler) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}
