package entity

import "time"

// Supplier representa un proveedor.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
