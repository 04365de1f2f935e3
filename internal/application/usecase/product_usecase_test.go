package usecase_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/usecase"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]*entity.Product{}}
}

func (r *memProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *memProductRepo) AdjustStock(id string, delta int64) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity += delta
	return nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if search == "" ||
			strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) ||
			strings.Contains(strings.ToLower(p.SKU), strings.ToLower(search)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) Count(search string) (int, error) {
	list, _ := r.List(search, 0, 0)
	return len(list), nil
}

func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.StockQuantity <= p.MinStock {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) Delete(id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type memSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{suppliers: map[string]*entity.Supplier{}}
}

func (r *memSupplierRepo) Create(s *entity.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *memSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSupplierRepo) Update(s *entity.Supplier) error { return r.Create(s) }

func (r *memSupplierRepo) List(search string, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}

func (r *memSupplierRepo) Count(search string) (int, error) { return 0, nil }

func (r *memSupplierRepo) Delete(id string) error {
	delete(r.suppliers, id)
	return nil
}

func newProductFixture() (*usecase.ProductUseCase, *memProductRepo, *memSupplierRepo) {
	products := newMemProductRepo()
	suppliers := newMemSupplierRepo()
	return usecase.NewProductUseCase(products, suppliers), products, suppliers
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_OK(t *testing.T) {
	uc, repo, _ := newProductFixture()

	resp, err := uc.Create(dto.CreateProductRequest{
		SKU:           "CAFE-500",
		Name:          "Café 500g",
		Price:         decimal.RequireFromString("12.50"),
		StockQuantity: 20,
		MinStock:      5,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, int64(20), resp.StockQuantity, "el alta admite stock de arranque")
	assert.Len(t, repo.products, 1)
}

// SKU repetido → ErrDuplicate, sin crear nada.
func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc, repo, _ := newProductFixture()

	_, err := uc.Create(dto.CreateProductRequest{SKU: "CAFE-500", Name: "Café 500g"})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateProductRequest{SKU: "CAFE-500", Name: "Otro café"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Len(t, repo.products, 1, "el duplicado no debe persistirse")
}

// Proveedor referenciado que no existe → not found.
func TestProductCreate_ProveedorInexistente(t *testing.T) {
	uc, _, _ := newProductFixture()
	supplierID := "s-no-existe"

	_, err := uc.Create(dto.CreateProductRequest{
		SKU:        "CAFE-500",
		Name:       "Café 500g",
		SupplierID: &supplierID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Cambiar el SKU a uno ya usado por otro producto → ErrDuplicate.
func TestProductUpdate_SKUDeOtroProducto(t *testing.T) {
	uc, _, _ := newProductFixture()

	a, err := uc.Create(dto.CreateProductRequest{SKU: "SKU-A", Name: "Producto A"})
	require.NoError(t, err)
	_, err = uc.Create(dto.CreateProductRequest{SKU: "SKU-B", Name: "Producto B"})
	require.NoError(t, err)

	skuB := "SKU-B"
	_, err = uc.Update(a.ID, dto.UpdateProductRequest{SKU: &skuB})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

// Update parcial: solo cambian los campos enviados; el stock nunca.
func TestProductUpdate_Parcial(t *testing.T) {
	uc, repo, _ := newProductFixture()

	created, err := uc.Create(dto.CreateProductRequest{
		SKU:           "CAFE-500",
		Name:          "Café 500g",
		Price:         decimal.RequireFromString("12.50"),
		StockQuantity: 20,
	})
	require.NoError(t, err)

	newName := "Café premium 500g"
	resp, err := uc.Update(created.ID, dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "Café premium 500g", resp.Name)
	assert.Equal(t, "CAFE-500", resp.SKU, "el SKU no enviado no cambia")
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, int64(20), repo.products[created.ID].StockQuantity)
}

// Update de un producto inexistente devuelve nil (el handler lo mapea a 404).
func TestProductUpdate_Inexistente(t *testing.T) {
	uc, _, _ := newProductFixture()
	name := "Nada"

	resp, err := uc.Update("no-existe", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

// Solo entran al listado los productos con stock en o bajo su mínimo.
func TestProductListLowStock(t *testing.T) {
	uc, _, _ := newProductFixture()

	_, err := uc.Create(dto.CreateProductRequest{SKU: "A", Name: "A", StockQuantity: 2, MinStock: 5})
	require.NoError(t, err)
	_, err = uc.Create(dto.CreateProductRequest{SKU: "B", Name: "B", StockQuantity: 5, MinStock: 5})
	require.NoError(t, err)
	_, err = uc.Create(dto.CreateProductRequest{SKU: "C", Name: "C", StockQuantity: 50, MinStock: 5})
	require.NoError(t, err)

	out, err := uc.ListLowStock()
	require.NoError(t, err)
	assert.Len(t, out, 2, "A (bajo) y B (igual al mínimo) entran, C no")
}

// Paginación del listado con búsqueda.
func TestProductList_Paginacion(t *testing.T) {
	uc, _, _ := newProductFixture()

	for _, sku := range []string{"A", "B", "C", "D", "E"} {
		_, err := uc.Create(dto.CreateProductRequest{SKU: sku, Name: "Café " + sku})
		require.NoError(t, err)
	}

	out, err := uc.List("café", dto.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Page.Total)
	assert.Equal(t, 3, out.Page.Pages, "ceil(5/2) = 3")
}
