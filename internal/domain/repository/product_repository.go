package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate y AdjustStock son el libro de stock: solo los flujos de
// venta/compra los invocan, siempre dentro de una transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// decrementos concurrentes de stock sobre el mismo producto.
	GetForUpdate(id string) (*entity.Product, error)
	// AdjustStock suma delta (puede ser negativo) a stock_quantity.
	AdjustStock(id string, delta int64) error
	Update(product *entity.Product) error
	List(search string, limit, offset int) ([]*entity.Product, error)
	Count(search string) (int, error)
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
