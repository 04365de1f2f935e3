package trade_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria: un store compartido y repositorios atados a él. El
// fakeTxRunner toma un snapshot antes de ejecutar fn y lo restaura si fn
// falla, emulando el rollback de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products      map[string]*entity.Product
	sales         map[string]*entity.Sale
	saleItems     map[string][]*entity.SaleItem // por saleID
	purchases     map[string]*entity.Purchase
	purchaseItems map[string][]*entity.PurchaseItem // por purchaseID
	customers     map[string]*entity.Customer
	suppliers     map[string]*entity.Supplier
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:      map[string]*entity.Product{},
		sales:         map[string]*entity.Sale{},
		saleItems:     map[string][]*entity.SaleItem{},
		purchases:     map[string]*entity.Purchase{},
		purchaseItems: map[string][]*entity.PurchaseItem{},
		customers:     map[string]*entity.Customer{},
		suppliers:     map[string]*entity.Supplier{},
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for k, v := range s.products {
		p := *v
		cp.products[k] = &p
	}
	for k, v := range s.sales {
		sl := *v
		cp.sales[k] = &sl
	}
	for k, v := range s.saleItems {
		cp.saleItems[k] = append([]*entity.SaleItem(nil), v...)
	}
	for k, v := range s.purchases {
		p := *v
		cp.purchases[k] = &p
	}
	for k, v := range s.purchaseItems {
		cp.purchaseItems[k] = append([]*entity.PurchaseItem(nil), v...)
	}
	for k, v := range s.customers {
		c := *v
		cp.customers[k] = &c
	}
	for k, v := range s.suppliers {
		sp := *v
		cp.suppliers[k] = &sp
	}
	return cp
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.products = snap.products
	s.sales = snap.sales
	s.saleItems = snap.saleItems
	s.purchases = snap.purchases
	s.purchaseItems = snap.purchaseItems
	s.customers = snap.customers
	s.suppliers = snap.suppliers
}

// ── ProductRepository ────────────────────────────────────────────────────────

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.store.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate no necesita bloquear nada en memoria; devuelve la fila igual
// que GetByID.
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) AdjustStock(id string, delta int64) error {
	p, ok := r.store.products[id]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if p.StockQuantity+delta < 0 {
		// espejo del CHECK (stock_quantity >= 0) del esquema
		return fmt.Errorf("%w: el stock no puede quedar negativo", domain.ErrConflict)
	}
	p.StockQuantity += delta
	return nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.store.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Count(search string) (int, error) {
	list, _ := r.List(search, 0, 0)
	return len(list), nil
}

func (r *fakeProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.StockQuantity <= p.MinStock {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.store.products, id)
	return nil
}

// ── SaleRepository ───────────────────────────────────────────────────────────

type fakeSaleRepo struct{ store *fakeStore }

func (r *fakeSaleRepo) Create(s *entity.Sale) error {
	r.store.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.store.saleItems[item.SaleID] = append(r.store.saleItems[item.SaleID], item)
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	return r.store.saleItems[saleID], nil
}

func (r *fakeSaleRepo) List(filter repository.DateRangeFilter, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.store.sales {
		if filter.StartDate != nil && s.SaleDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && s.SaleDate.After(*filter.EndDate) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) Count(filter repository.DateRangeFilter) (int, error) {
	list, _ := r.List(filter, 0, 0)
	return len(list), nil
}

func (r *fakeSaleRepo) Delete(id string) error {
	if _, ok := r.store.sales[id]; !ok {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	delete(r.store.sales, id)
	delete(r.store.saleItems, id)
	return nil
}

// ── PurchaseRepository ───────────────────────────────────────────────────────

type fakePurchaseRepo struct{ store *fakeStore }

func (r *fakePurchaseRepo) Create(p *entity.Purchase) error {
	r.store.purchases[p.ID] = p
	return nil
}

func (r *fakePurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	r.store.purchaseItems[item.PurchaseID] = append(r.store.purchaseItems[item.PurchaseID], item)
	return nil
}

func (r *fakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.store.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePurchaseRepo) GetItemsByPurchaseID(purchaseID string) ([]*entity.PurchaseItem, error) {
	return r.store.purchaseItems[purchaseID], nil
}

func (r *fakePurchaseRepo) UpdateStatus(id, status string) error {
	p, ok := r.store.purchases[id]
	if !ok {
		return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	p.Status = status
	return nil
}

func (r *fakePurchaseRepo) List(filter repository.DateRangeFilter, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.store.purchases {
		if filter.StartDate != nil && p.PurchaseDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && p.PurchaseDate.After(*filter.EndDate) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePurchaseRepo) Count(filter repository.DateRangeFilter) (int, error) {
	list, _ := r.List(filter, 0, 0)
	return len(list), nil
}

func (r *fakePurchaseRepo) Delete(id string) error {
	if _, ok := r.store.purchases[id]; !ok {
		return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	delete(r.store.purchases, id)
	delete(r.store.purchaseItems, id)
	return nil
}

// ── CustomerRepository / SupplierRepository (solo lo que usan los casos) ─────

type fakeCustomerRepo struct{ store *fakeStore }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	r.store.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.store.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error { return r.Create(c) }

func (r *fakeCustomerRepo) List(search string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) Count(search string) (int, error) { return 0, nil }

func (r *fakeCustomerRepo) Delete(id string) error {
	delete(r.store.customers, id)
	return nil
}

type fakeSupplierRepo struct{ store *fakeStore }

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error {
	r.store.suppliers[s.ID] = s
	return nil
}

func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSupplierRepo) Update(s *entity.Supplier) error { return r.Create(s) }

func (r *fakeSupplierRepo) List(search string, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}

func (r *fakeSupplierRepo) Count(search string) (int, error) { return 0, nil }

func (r *fakeSupplierRepo) Delete(id string) error {
	delete(r.store.suppliers, id)
	return nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ store *fakeStore }

func (tr *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	snap := tr.store.snapshot()
	err := fn(
		&fakeProductRepo{store: tr.store},
		&fakeSaleRepo{store: tr.store},
		&fakePurchaseRepo{store: tr.store},
	)
	if err != nil {
		tr.store.restore(snap)
	}
	return err
}
