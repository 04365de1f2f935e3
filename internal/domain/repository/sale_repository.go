package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
// Delete elimina la cabecera; las líneas caen en cascada (esquema).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error)
	List(filter DateRangeFilter, limit, offset int) ([]*entity.Sale, error)
	Count(filter DateRangeFilter) (int, error)
	Delete(id string) error
}
