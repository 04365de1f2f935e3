package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea solicitada en una compra. Aquí el precio sí lo
// aporta el caller: es el precio realmente pagado al proveedor.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseRequest entrada para crear una compra.
type CreatePurchaseRequest struct {
	SupplierID       *string               `json:"supplier_id"`
	ExpectedDelivery *string               `json:"expected_delivery"` // 2006-01-02
	Items            []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdatePurchaseStatusRequest entrada para transicionar el estado.
type UpdatePurchaseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

// PurchaseItemResponse salida de una línea de compra.
type PurchaseItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID               string                 `json:"id"`
	SupplierID       *string                `json:"supplier_id,omitempty"`
	SupplierName     string                 `json:"supplier_name,omitempty"`
	TotalAmount      decimal.Decimal        `json:"total_amount"`
	Status           string                 `json:"status"`
	ExpectedDelivery *time.Time             `json:"expected_delivery,omitempty"`
	CreatedBy        string                 `json:"created_by"`
	CreatedByName    string                 `json:"created_by_name,omitempty"`
	PurchaseDate     time.Time              `json:"purchase_date"`
	Items            []PurchaseItemResponse `json:"items,omitempty"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
