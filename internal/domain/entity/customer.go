package entity

import "time"

// Customer representa un cliente.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string // identificación tributaria, opcional
	CreatedAt time.Time
	UpdatedAt time.Time
}
