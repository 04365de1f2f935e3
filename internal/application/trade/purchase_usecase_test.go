package trade_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/trade"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
)

func newPurchaseFixture() (*trade.PurchaseUseCase, *fakeStore) {
	store := newFakeStore()
	uc := trade.NewPurchaseUseCase(
		&fakeTxRunner{store: store},
		&fakePurchaseRepo{store: store},
		&fakeSupplierRepo{store: store},
	)
	return uc, store
}

// Crear una compra no toca el stock: solo registra cabecera y líneas con el
// precio que indica el caller.
func TestPurchaseCreate_NoAfectaStock(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 7)

	resp, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 4, UnitPrice: decimal.RequireFromString("6.25")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("25.00")),
		"total esperado 25.00 (4 × 6.25), obtenido %s", resp.TotalAmount)
	assert.Equal(t, entity.PurchaseStatusPending, resp.Status, "estado inicial pending")
	assert.Equal(t, int64(7), store.products["p1"].StockQuantity,
		"crear la compra no debe modificar el stock")
}

// El proveedor es opcional: una compra sin proveedor se crea y persiste con
// supplier_id en NULL (el esquema lo permite).
func TestPurchaseCreate_SinProveedor(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 7)

	resp, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("5")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Nil(t, resp.SupplierID)
	assert.Nil(t, store.purchases[resp.ID].SupplierID, "la compra se guarda sin proveedor")
}

// Compra sin líneas → entrada inválida.
func TestPurchaseCreate_SinLineas(t *testing.T) {
	uc, _ := newPurchaseFixture()

	_, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Precio unitario negativo → entrada inválida.
func TestPurchaseCreate_PrecioNegativo(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 7)

	_, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("-1")},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Proveedor referenciado que no existe → not found.
func TestPurchaseCreate_ProveedorInexistente(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 7)
	supplierID := "s-no-existe"

	_, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		SupplierID: &supplierID,
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("5")},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Fecha de entrega mal formada → entrada inválida.
func TestPurchaseCreate_FechaEntregaInvalida(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 7)
	bad := "31/12/2026"

	_, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		ExpectedDelivery: &bad,
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("5")},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Transición de estado dentro del conjunto cerrado.
func TestPurchaseUpdateStatus_Valido(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 7)

	resp, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("5")},
		},
	})
	require.NoError(t, err)

	updated, err := uc.UpdateStatus(context.Background(), resp.ID, entity.PurchaseStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCompleted, updated.Status)
	assert.Equal(t, entity.PurchaseStatusCompleted, store.purchases[resp.ID].Status)
}

// Estado fuera del conjunto pending/completed/cancelled → entrada inválida.
func TestPurchaseUpdateStatus_EstadoInvalido(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 7)

	resp, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("5")},
		},
	})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), resp.ID, "entregado")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, entity.PurchaseStatusPending, store.purchases[resp.ID].Status,
		"el estado no debe cambiar")
}

// Actualizar estado de una compra inexistente → not found.
func TestPurchaseUpdateStatus_CompraInexistente(t *testing.T) {
	uc, _ := newPurchaseFixture()

	_, err := uc.UpdateStatus(context.Background(), "no-existe", entity.PurchaseStatusCompleted)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Cancelar una compra descuenta del stock lo que las líneas habían ingresado.
func TestPurchaseCancel_DescuentaStockYElimina(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 10)

	resp, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 4, UnitPrice: decimal.RequireFromString("6")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Cancel(context.Background(), resp.ID))

	assert.Equal(t, int64(6), store.products["p1"].StockQuantity, "stock 10 - 4 = 6")
	assert.Empty(t, store.purchases, "la compra debe eliminarse")
}

// Si al cancelar el descuento dejaría el stock negativo, la operación entera
// se revierte (la compra sigue existiendo).
func TestPurchaseCancel_StockQuedaNegativo_Revierte(t *testing.T) {
	uc, store := newPurchaseFixture()
	seedProduct(store, "p1", "Café 500g", "10.00", 2)

	resp, err := uc.Create(context.Background(), testSellerID, dto.CreatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 5, UnitPrice: decimal.RequireFromString("6")},
		},
	})
	require.NoError(t, err)

	err = uc.Cancel(context.Background(), resp.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	assert.Equal(t, int64(2), store.products["p1"].StockQuantity, "el stock no debe cambiar")
	assert.Len(t, store.purchases, 1, "la compra debe seguir existiendo")
}

// Cancelar una compra inexistente es un error explícito, no un no-op.
func TestPurchaseCancel_CompraInexistente(t *testing.T) {
	uc, _ := newPurchaseFixture()

	err := uc.Cancel(context.Background(), "no-existe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
