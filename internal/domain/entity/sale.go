package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta. TotalAmount es derivado: suma exacta de los
// totales de línea. Una venta es inmutable una vez creada; cancelarla la
// elimina y revierte el stock (SaleUseCase.Cancel).
type Sale struct {
	ID            string
	CustomerID    *string
	TotalAmount   decimal.Decimal
	PaymentMethod string // cash por defecto
	CreatedBy     string
	SaleDate      time.Time
	CreatedAt     time.Time

	CustomerName  string // solo lectura (join)
	CreatedByName string // solo lectura (join)
}

// SaleItem es una línea de venta. UnitPrice es el precio de catálogo vigente
// al momento de la venta (snapshot), no lo aporta el caller.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Quantity    int64 // > 0
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal // Quantity * UnitPrice
	ProductName string          // solo lectura (join)
}
