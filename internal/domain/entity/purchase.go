package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Purchase (conjunto cerrado).
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusCancelled = "cancelled"
)

// ValidPurchaseStatus indica si s pertenece al conjunto cerrado de estados.
func ValidPurchaseStatus(s string) bool {
	return s == PurchaseStatusPending || s == PurchaseStatusCompleted || s == PurchaseStatusCancelled
}

// Purchase representa una orden de compra a un proveedor. El precio unitario
// de cada línea lo aporta el caller (precio realmente pagado, no catálogo).
type Purchase struct {
	ID               string
	SupplierID       *string
	TotalAmount      decimal.Decimal
	Status           string // pending, completed, cancelled
	ExpectedDelivery *time.Time
	CreatedBy        string
	PurchaseDate     time.Time
	CreatedAt        time.Time

	SupplierName  string // solo lectura (join)
	CreatedByName string // solo lectura (join)
}

// PurchaseItem es una línea de compra.
type PurchaseItem struct {
	ID          string
	PurchaseID  string
	ProductID   string
	Quantity    int64 // > 0
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	ProductName string // solo lectura (join)
}
