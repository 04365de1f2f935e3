package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su stock actual.
// StockQuantity solo se modifica vía los flujos de venta/compra (nunca >= 0 se viola:
// la transacción y el CHECK del esquema lo garantizan).
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	Price         decimal.Decimal // precio de venta vigente (autoritativo en ventas)
	StockQuantity int64
	MinStock      int64   // umbral para el reporte de stock bajo
	SupplierID    *string // proveedor habitual, opcional
	SupplierName  string  // solo lectura (join en listados)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
