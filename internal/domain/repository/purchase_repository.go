package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para Purchase y sus líneas.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateItem(item *entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	GetItemsByPurchaseID(purchaseID string) ([]*entity.PurchaseItem, error)
	UpdateStatus(id, status string) error
	List(filter DateRangeFilter, limit, offset int) ([]*entity.Purchase, error)
	Count(filter DateRangeFilter) (int, error)
	Delete(id string) error
}
