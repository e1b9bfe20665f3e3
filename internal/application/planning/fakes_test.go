package planning

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/domain/shared"
)

type fakeFinishedGoodRepo struct {
	mu    sync.Mutex
	goods map[uuid.UUID]*inventory.FinishedGood
}

func newFakeFinishedGoodRepo() *fakeFinishedGoodRepo {
	return &fakeFinishedGoodRepo{goods: make(map[uuid.UUID]*inventory.FinishedGood)}
}

func (r *fakeFinishedGoodRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.FinishedGood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goods[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeFinishedGoodRepo) FindByProductConfig(_ context.Context, productConfigID uuid.UUID) (*inventory.FinishedGood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.goods {
		if g.ProductConfigID == productConfigID {
			copied := *g
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeFinishedGoodRepo) FindByProductConfigs(_ context.Context, ids []uuid.UUID) ([]inventory.FinishedGood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.FinishedGood
	for _, g := range r.goods {
		for _, id := range ids {
			if g.ProductConfigID == id {
				out = append(out, *g)
			}
		}
	}
	return out, nil
}

func (r *fakeFinishedGoodRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.FinishedGood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.FinishedGood, 0, len(r.goods))
	for _, g := range r.goods {
		out = append(out, *g)
	}
	return out, nil
}

func (r *fakeFinishedGoodRepo) Save(_ context.Context, good *inventory.FinishedGood) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *good
	r.goods[good.ID] = &copied
	return nil
}

func (r *fakeFinishedGoodRepo) SaveWithLock(ctx context.Context, good *inventory.FinishedGood) error {
	return r.Save(ctx, good)
}

func (r *fakeFinishedGoodRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.goods)), nil
}

type fakeRawMaterialRepo struct {
	mu        sync.Mutex
	materials map[uuid.UUID]*inventory.RawMaterial
}

func newFakeRawMaterialRepo() *fakeRawMaterialRepo {
	return &fakeRawMaterialRepo{materials: make(map[uuid.UUID]*inventory.RawMaterial)}
}

func (r *fakeRawMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.RawMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeRawMaterialRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]inventory.RawMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.RawMaterial
	for _, id := range ids {
		if m, ok := r.materials[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeRawMaterialRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.RawMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.RawMaterial, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeRawMaterialRepo) Save(_ context.Context, material *inventory.RawMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *material
	r.materials[material.ID] = &copied
	return nil
}

func (r *fakeRawMaterialRepo) SaveWithLock(ctx context.Context, material *inventory.RawMaterial) error {
	return r.Save(ctx, material)
}

func (r *fakeRawMaterialRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.materials, id)
	return nil
}

func (r *fakeRawMaterialRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.materials)), nil
}

type fakeConfigRepo struct {
	mu      sync.Mutex
	configs map[uuid.UUID]*catalog.ProductConfig
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[uuid.UUID]*catalog.ProductConfig)}
}

func (r *fakeConfigRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.ProductConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.configs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeConfigRepo) FindByCode(_ context.Context, code string) (*catalog.ProductConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.configs {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeConfigRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.ProductConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.ProductConfig
	for _, id := range ids {
		if c, ok := r.configs[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConfigRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.ProductConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.ProductConfig, 0, len(r.configs))
	for _, c := range r.configs {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeConfigRepo) FindActive(_ context.Context) ([]catalog.ProductConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.ProductConfig
	for _, c := range r.configs {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConfigRepo) FindByRawMaterial(_ context.Context, rawMaterialID uuid.UUID) ([]catalog.ProductConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.ProductConfig
	for _, c := range r.configs {
		if c.UsesMaterial(rawMaterialID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConfigRepo) Save(_ context.Context, cfg *catalog.ProductConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.ID] = cfg
	return nil
}

func (r *fakeConfigRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.configs, id)
	return nil
}

func (r *fakeConfigRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.configs)), nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*orders.Order
	// sumErrs fails the next N outstanding-demand queries, for retry tests
	sumErrs int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*orders.Order)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByItemID(_ context.Context, itemID uuid.UUID) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		for _, item := range o.Items {
			if item.ID == itemID {
				return o, nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]orders.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) FindOpenByProductConfig(_ context.Context, productConfigID uuid.UUID) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []orders.Order
	for _, o := range r.orders {
		for _, item := range o.Items {
			if item.ProductConfigID == productConfigID && item.Status != orders.ItemStatusDelivered {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, order *orders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) SumOutstandingByProductConfig(_ context.Context, productConfigID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sumErrs > 0 {
		r.sumErrs--
		return decimal.Zero, shared.NewDomainError("DB_DOWN", "simulated query failure")
	}
	sum := decimal.Zero
	for _, o := range r.orders {
		for _, item := range o.Items {
			if item.ProductConfigID == productConfigID && item.Status != orders.ItemStatusDelivered {
				sum = sum.Add(item.Remaining())
			}
		}
	}
	return sum, nil
}
