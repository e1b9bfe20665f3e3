package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogapp "github.com/stockpilot/backend/internal/application/catalog"
	inventoryapp "github.com/stockpilot/backend/internal/application/inventory"
	ordersapp "github.com/stockpilot/backend/internal/application/orders"
	"github.com/stockpilot/backend/internal/application/planning"
	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/infrastructure/cache"
	"github.com/stockpilot/backend/internal/infrastructure/event"
	"github.com/stockpilot/backend/internal/infrastructure/persistence"
	"github.com/stockpilot/backend/internal/interfaces/http/handler"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
	"github.com/stockpilot/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testStack wires the full API over an in-memory database, the way the
// server binary does it, so handler tests cover routing, binding, the
// services and persistence in one pass.
type testStack struct {
	engine    *gin.Engine
	dirty     *planning.DirtySet
	snapshots *cache.InMemorySnapshotCache
	userID    uuid.UUID
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.ProductConfig{},
		&catalog.MaterialRequirement{},
		&inventory.FinishedGood{},
		&inventory.RawMaterial{},
		&inventory.TagEvent{},
		&orders.Order{},
		&orders.OrderItem{},
	))

	logger := zap.NewNop()

	configRepo := persistence.NewGormProductConfigRepository(db)
	goodRepo := persistence.NewGormFinishedGoodRepository(db)
	materialRepo := persistence.NewGormRawMaterialRepository(db)
	tagEventRepo := persistence.NewGormTagEventRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	bus := event.NewInMemoryEventBus(logger)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	ledgerService := inventoryapp.NewStockLedgerService(txScope, bus, logger)
	orderService := ordersapp.NewOrderService(orderRepo, configRepo, bus, logger)
	catalogService := catalogapp.NewCatalogService(configRepo, goodRepo, materialRepo, orderRepo, bus, logger)

	dirty := planning.NewDirtySet()
	snapshots := cache.NewInMemorySnapshotCache()

	handlers := router.Handlers{
		Stock:         handler.NewStockHandler(ledgerService),
		Orders:        handler.NewOrderHandler(orderService),
		ProductConfig: handler.NewProductConfigHandler(catalogService),
		Inventory:     handler.NewInventoryHandler(catalogService, goodRepo, tagEventRepo),
		Reports:       handler.NewReportHandler(goodRepo, materialRepo, configRepo, snapshots, time.Minute, logger),
		Recalculation: handler.NewRecalculationHandler(dirty, orderRepo),
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPIRoutes(r, handlers)
	r.Setup()

	return &testStack{
		engine:    engine,
		dirty:     dirty,
		snapshots: snapshots,
		userID:    uuid.New(),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
	} `json:"meta"`
}

func (s *testStack) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", s.userID.String())

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NotNil(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// createMaterial registers a raw material and returns its ID
func (s *testStack) createMaterial(t *testing.T, name string) uuid.UUID {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/raw-materials", map[string]any{
		"name": name, "unit": "kg", "minimum_stock": "5",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	decodeData(t, env, &resp)
	return resp.ID
}

// createConfig defines a SKU with a one-edge bill of materials and returns
// the config ID and its finished good ID
func (s *testStack) createConfig(t *testing.T, category string, materialID uuid.UUID) (uuid.UUID, uuid.UUID) {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/product-configs", map[string]any{
		"category":    category,
		"subcategory": "Standard",
		"size":        "M",
		"weight":      "1.5",
		"threshold":   "2",
		"materials": []map[string]any{
			{"raw_material_id": materialID, "quantity_per_unit": "3", "unit": "kg"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	decodeData(t, env, &resp)

	w, env = s.do(t, http.MethodGet, "/api/v1/finished-goods?page=1&page_size=50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var goods []struct {
		ID              uuid.UUID `json:"id"`
		ProductConfigID uuid.UUID `json:"product_config_id"`
	}
	decodeData(t, env, &goods)
	for _, g := range goods {
		if g.ProductConfigID == resp.ID {
			return resp.ID, g.ID
		}
	}
	t.Fatalf("no finished good created for config %s", resp.ID)
	return uuid.Nil, uuid.Nil
}

func TestStockEndpoints(t *testing.T) {
	s := newTestStack(t)
	materialID := s.createMaterial(t, "Steel")
	_, goodID := s.createConfig(t, "Chair", materialID)

	t.Run("tag in adds stock", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/api/v1/stock/tag-in", map[string]any{
			"tag_id": "TAG-001", "finished_good_id": goodID, "quantity": "10",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result struct {
			NewStock string `json:"new_stock"`
		}
		decodeData(t, env, &result)
		assert.Equal(t, "10", result.NewStock)
	})

	t.Run("replayed tag is rejected with conflict", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/api/v1/stock/tag-in", map[string]any{
			"tag_id": "TAG-001", "finished_good_id": goodID, "quantity": "4",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_DUPLICATE_TAG", env.Error.Code)
	})

	t.Run("missing user header is a bad request", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]any{
			"tag_id": "TAG-002", "finished_good_id": goodID, "quantity": "1",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/tag-in", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid quantity maps to validation error", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/api/v1/stock/adjustments", map[string]any{
			"finished_good_id": goodID, "delta": "-999", "reason": "count correction",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_INSUFFICIENT_STOCK", env.Error.Code)
	})

	t.Run("adjustment moves stock and the trail records it", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/api/v1/stock/adjustments", map[string]any{
			"finished_good_id": goodID, "delta": "-3", "reason": "damaged units",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, env := s.do(t, http.MethodGet, "/api/v1/finished-goods/"+goodID.String()+"/tag-events", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var events []struct {
			Action   string `json:"action"`
			NewStock string `json:"new_stock"`
		}
		decodeData(t, env, &events)
		require.Len(t, events, 2)
		assert.Equal(t, "TAG_IN", events[0].Action)
		assert.Equal(t, "ADJUSTMENT", events[1].Action)
		assert.Equal(t, "7", events[1].NewStock)
	})

	t.Run("material movement updates raw stock", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/api/v1/raw-materials/"+materialID.String()+"/movements", map[string]any{
			"delta": "25", "reason": "goods receipt",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result struct {
			NewStock string `json:"new_stock"`
		}
		decodeData(t, env, &result)
		assert.Equal(t, "25", result.NewStock)
	})

	t.Run("procurement quantity is reported without content", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPut, "/api/v1/raw-materials/"+materialID.String()+"/procurement-quantity", map[string]any{
			"quantity": "12",
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestOrderEndpoints(t *testing.T) {
	s := newTestStack(t)
	materialID := s.createMaterial(t, "Oak")
	configID, goodID := s.createConfig(t, "Table", materialID)
	customerID := uuid.New()

	var orderID, itemID uuid.UUID

	t.Run("create order with item", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
			"order_number": "SO-1001",
			"customer_id":  customerID,
			"items": []map[string]any{
				{"product_config_id": configID, "quantity": "5"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var order struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
			Items  []struct {
				ID     uuid.UUID `json:"id"`
				Status string    `json:"status"`
			} `json:"items"`
		}
		decodeData(t, env, &order)
		require.Len(t, order.Items, 1)
		orderID = order.ID
		itemID = order.Items[0].ID
		assert.Equal(t, "CREATED", order.Status)
		assert.Equal(t, "CREATED", order.Items[0].Status)
	})

	t.Run("duplicate order number conflicts", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
			"order_number": "SO-1001",
			"customer_id":  customerID,
			"items": []map[string]any{
				{"product_config_id": configID, "quantity": "1"},
			},
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_ALREADY_EXISTS", env.Error.Code)
	})

	t.Run("readiness signal moves the item", func(t *testing.T) {
		w, env := s.do(t, http.MethodPut, "/api/v1/orders/"+orderID.String()+"/items/"+itemID.String()+"/readiness", map[string]any{
			"readiness": "IN_PROGRESS",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var order struct {
			Status string `json:"status"`
			Items  []struct {
				Status    string `json:"status"`
				Readiness string `json:"readiness"`
			} `json:"items"`
		}
		decodeData(t, env, &order)
		assert.Equal(t, "IN_PROGRESS", order.Items[0].Status)
		assert.Equal(t, "IN_PROGRESS", order.Status)
	})

	t.Run("unknown readiness value is rejected", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPut, "/api/v1/orders/"+orderID.String()+"/items/"+itemID.String()+"/readiness", map[string]any{
			"readiness": "ALMOST",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("tag out fulfills the item", func(t *testing.T) {
		_, _ = s.do(t, http.MethodPost, "/api/v1/stock/tag-in", map[string]any{
			"tag_id": "TAG-100", "finished_good_id": goodID, "quantity": "8",
		})

		w, _ := s.do(t, http.MethodPost, "/api/v1/stock/tag-out", map[string]any{
			"tag_id":           "TAG-OUT-1",
			"finished_good_id": goodID,
			"quantity":         "5",
			"customer_id":      customerID,
			"order_id":         orderID,
			"order_item_id":    itemID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, env := s.do(t, http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var order struct {
			Items []struct {
				FulfilledQuantity string `json:"fulfilled_quantity"`
				Status            string `json:"status"`
			} `json:"items"`
		}
		decodeData(t, env, &order)
		assert.Equal(t, "5", order.Items[0].FulfilledQuantity)
	})

	t.Run("over fulfillment is unprocessable", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/api/v1/stock/tag-out", map[string]any{
			"tag_id":           "TAG-OUT-2",
			"finished_good_id": goodID,
			"quantity":         "1",
			"customer_id":      customerID,
			"order_id":         orderID,
			"order_item_id":    itemID,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_OVER_FULFILLMENT", env.Error.Code)
	})

	t.Run("fulfilled item cannot be removed", func(t *testing.T) {
		w, _ := s.do(t, http.MethodDelete, "/api/v1/orders/"+orderID.String()+"/items/"+itemID.String(), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("delivery closes the fulfilled item", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/items/"+itemID.String()+"/delivered", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var order struct {
			Status string `json:"status"`
			Items  []struct {
				Status string `json:"status"`
			} `json:"items"`
		}
		decodeData(t, env, &order)
		assert.Equal(t, "DELIVERED", order.Items[0].Status)
		assert.Equal(t, "DELIVERED", order.Status)
	})

	t.Run("lookup by number", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/orders/number/SO-1001", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var order struct {
			OrderNumber string `json:"order_number"`
		}
		decodeData(t, env, &order)
		assert.Equal(t, "SO-1001", order.OrderNumber)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_NOT_FOUND", env.Error.Code)
	})
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestStack(t)
	materialID := s.createMaterial(t, "Pine")
	configID, _ := s.createConfig(t, "Shelf", materialID)

	t.Run("get by id and code agree", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/product-configs/"+configID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var cfg struct {
			Code      string `json:"code"`
			Materials []struct {
				RawMaterialID uuid.UUID `json:"raw_material_id"`
			} `json:"materials"`
		}
		decodeData(t, env, &cfg)
		require.Len(t, cfg.Materials, 1)
		assert.Equal(t, materialID, cfg.Materials[0].RawMaterialID)

		w, env = s.do(t, http.MethodGet, "/api/v1/product-configs/code/"+cfg.Code, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("threshold update", func(t *testing.T) {
		w, env := s.do(t, http.MethodPut, "/api/v1/product-configs/"+configID.String()+"/threshold", map[string]any{
			"threshold": "9",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var cfg struct {
			Threshold string `json:"threshold"`
		}
		decodeData(t, env, &cfg)
		assert.Equal(t, "9", cfg.Threshold)
	})

	t.Run("replace materials rejects unknown material", func(t *testing.T) {
		w, env := s.do(t, http.MethodPut, "/api/v1/product-configs/"+configID.String()+"/materials", map[string]any{
			"materials": []map[string]any{
				{"raw_material_id": uuid.New(), "quantity_per_unit": "1", "unit": "kg"},
			},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_INCONSISTENT_BOM", env.Error.Code)
	})

	t.Run("deactivated config refuses new orders", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPut, "/api/v1/product-configs/"+configID.String()+"/active", map[string]any{
			"active": false,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, env := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
			"order_number": "SO-2001",
			"customer_id":  uuid.New(),
			"items": []map[string]any{
				{"product_config_id": configID, "quantity": "1"},
			},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, env.Error)
	})

	t.Run("minimum stock update", func(t *testing.T) {
		w, env := s.do(t, http.MethodPut, "/api/v1/raw-materials/"+materialID.String()+"/minimum-stock", map[string]any{
			"minimum_stock": "11",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var material struct {
			MinimumStock string `json:"minimum_stock"`
			Status       string `json:"status"`
		}
		decodeData(t, env, &material)
		assert.Equal(t, "11", material.MinimumStock)
		// empty stock below the raised minimum leaves a positive shortfall
		assert.Equal(t, "CRITICAL", material.Status)
	})
}

func TestRecalculationEndpoint(t *testing.T) {
	s := newTestStack(t)
	materialID := s.createMaterial(t, "Brass")
	configID, _ := s.createConfig(t, "Lamp", materialID)

	t.Run("full scope marks everything dirty", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/api/v1/recalculations", map[string]any{"scope": "full"})
		assert.Equal(t, http.StatusAccepted, w.Code)
		_, _, full := s.dirty.Drain()
		assert.True(t, full)
	})

	t.Run("config scope marks the given configs", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/api/v1/recalculations", map[string]any{
			"scope":              "product_config",
			"product_config_ids": []uuid.UUID{configID},
		})
		assert.Equal(t, http.StatusAccepted, w.Code)
		ids, _, full := s.dirty.Drain()
		assert.False(t, full)
		assert.Equal(t, []uuid.UUID{configID}, ids)
	})

	t.Run("config scope without ids is rejected", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/api/v1/recalculations", map[string]any{"scope": "product_config"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("order scope resolves the order's configs", func(t *testing.T) {
		_, env := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
			"order_number": "SO-3001",
			"customer_id":  uuid.New(),
			"items": []map[string]any{
				{"product_config_id": configID, "quantity": "2"},
			},
		})
		var order struct {
			ID uuid.UUID `json:"id"`
		}
		decodeData(t, env, &order)
		s.dirty.Drain()

		w, _ := s.do(t, http.MethodPost, "/api/v1/recalculations", map[string]any{
			"scope":    "order",
			"order_id": order.ID,
		})
		assert.Equal(t, http.StatusAccepted, w.Code)
		ids, _, _ := s.dirty.Drain()
		assert.Equal(t, []uuid.UUID{configID}, ids)
	})

	t.Run("unknown scope is rejected", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/api/v1/recalculations", map[string]any{"scope": "galactic"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportEndpoints(t *testing.T) {
	s := newTestStack(t)
	materialID := s.createMaterial(t, "Copper")
	s.createConfig(t, "Desk", materialID)

	t.Run("dashboard summary counts supply positions", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/reports/dashboard", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var summary struct {
			FinishedGoods     int `json:"finished_goods"`
			Materials         int `json:"materials"`
			CriticalMaterials int `json:"critical_materials"`
		}
		decodeData(t, env, &summary)
		assert.Equal(t, 1, summary.FinishedGoods)
		assert.Equal(t, 1, summary.Materials)
		// zero stock below the minimum is a positive shortfall
		assert.Equal(t, 1, summary.CriticalMaterials)
	})

	t.Run("payload is snapshot cached", func(t *testing.T) {
		assert.Equal(t, 1, s.snapshots.Len())
		w, _ := s.do(t, http.MethodGet, "/api/v1/reports/dashboard", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, s.snapshots.Len())
	})

	t.Run("shortfall report lists under-supplied goods", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/reports/shortfalls", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var report struct {
			FinishedGoods []struct {
				Shortfall string `json:"shortfall"`
				Category  string `json:"category"`
			} `json:"finished_goods"`
			Materials []json.RawMessage `json:"materials"`
		}
		decodeData(t, env, &report)
		// threshold 2 with zero stock leaves a shortfall of 2
		require.Len(t, report.FinishedGoods, 1)
		assert.Equal(t, "2", report.FinishedGoods[0].Shortfall)
		assert.Equal(t, "Desk", report.FinishedGoods[0].Category)
	})

	t.Run("material report covers every material", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/reports/materials", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var report struct {
			Materials []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"materials"`
		}
		decodeData(t, env, &report)
		require.Len(t, report.Materials, 1)
		assert.Equal(t, "Copper", report.Materials[0].Name)
		assert.Equal(t, "CRITICAL", report.Materials[0].Status)
	})
}

func TestTagEventSearchEndpoint(t *testing.T) {
	s := newTestStack(t)
	materialID := s.createMaterial(t, "Iron")
	_, goodID := s.createConfig(t, "Bench", materialID)

	for _, tag := range []string{"T-1", "T-2", "T-3"} {
		w, _ := s.do(t, http.MethodPost, "/api/v1/stock/tag-in", map[string]any{
			"tag_id": tag, "finished_good_id": goodID, "quantity": "1",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	t.Run("filters by action with pagination meta", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/tag-events?action=TAG_IN&page=1&page_size=2", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var events []json.RawMessage
		decodeData(t, env, &events)
		assert.Len(t, events, 2)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(3), env.Meta.Total)
	})

	t.Run("filters by tag id", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/tag-events?tag_id=T-2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var events []struct {
			TagID string `json:"tag_id"`
		}
		decodeData(t, env, &events)
		require.Len(t, events, 1)
		assert.Equal(t, "T-2", events[0].TagID)
	})

	t.Run("rejects malformed finished good filter", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/api/v1/tag-events?finished_good_id=not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
