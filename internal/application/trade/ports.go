package trade

import (
	"context"

	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// TxRunner abre una unidad de trabajo atómica y entrega repositorios atados a
// la misma transacción. Commit si fn retorna nil; Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}
