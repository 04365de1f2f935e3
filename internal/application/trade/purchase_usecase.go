package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

const deliveryDateLayout = "2006-01-02"

// PurchaseUseCase crea y cancela compras de forma transaccional. A diferencia
// de las ventas, el precio unitario lo aporta el caller (precio pagado) y la
// creación no toca el stock: el sistema heredado solo ajusta stock al
// cancelar, y "corregir" esa asimetría alteraría los saldos de stock de los
// flujos existentes.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner TxRunner, purchaseRepo repository.PurchaseRepository, supplierRepo repository.SupplierRepository) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, purchaseRepo: purchaseRepo, supplierRepo: supplierRepo}
}

// Create crea la compra: valida que cada producto exista, acumula el total
// con los precios del caller y persiste cabecera y líneas en una transacción.
// No hay verificación ni ajuste de stock en la creación.
func (uc *PurchaseUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la compra necesita al menos una línea", domain.ErrInvalidInput)
	}

	var supplierName string
	if in.SupplierID != nil && *in.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(*in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, *in.SupplierID)
		}
		supplierName = supplier.Name
	}

	var expectedDelivery *time.Time
	if in.ExpectedDelivery != nil && *in.ExpectedDelivery != "" {
		t, err := time.Parse(deliveryDateLayout, *in.ExpectedDelivery)
		if err != nil {
			return nil, fmt.Errorf("%w: expected_delivery debe ser AAAA-MM-DD", domain.ErrInvalidInput)
		}
		expectedDelivery = &t
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:               uuid.New().String(),
		SupplierID:       in.SupplierID,
		Status:           entity.PurchaseStatusPending,
		ExpectedDelivery: expectedDelivery,
		CreatedBy:        userID,
		PurchaseDate:     now,
		CreatedAt:        now,
	}
	var items []*entity.PurchaseItem

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		total := decimal.Zero
		for _, req := range in.Items {
			if req.Quantity <= 0 {
				return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
			}
			if req.UnitPrice.LessThan(decimal.Zero) {
				return fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidInput)
			}
			product, err := productRepo.GetByID(req.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, req.ProductID)
			}
			lineTotal := req.UnitPrice.Mul(decimal.NewFromInt(req.Quantity))
			total = total.Add(lineTotal)
			items = append(items, &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: purchase.ID,
				ProductID:  product.ID,
				Quantity:   req.Quantity,
				UnitPrice:  req.UnitPrice,
				TotalPrice: lineTotal,
			})
		}
		purchase.TotalAmount = total
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		for _, item := range items {
			if err := purchaseRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	purchase.SupplierName = supplierName
	return toPurchaseResponse(purchase, items), nil
}

// UpdateStatus transiciona el estado dentro del conjunto cerrado
// pending | completed | cancelled. No hay máquina de transiciones más fina.
func (uc *PurchaseUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.PurchaseResponse, error) {
	if !entity.ValidPurchaseStatus(status) {
		return nil, fmt.Errorf("%w: estado %q fuera del conjunto permitido", domain.ErrInvalidInput, status)
	}
	if err := uc.purchaseRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Cancel elimina la compra y descuenta del stock la cantidad de cada línea,
// en una transacción. Es el espejo exacto de la cancelación de venta en el
// sistema heredado, aunque la creación nunca haya sumado ese stock.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		purchase, err := purchaseRepo.GetByID(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
		}
		items, err := purchaseRepo.GetItemsByPurchaseID(id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := productRepo.AdjustStock(item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		return purchaseRepo.Delete(id)
	})
}

// GetByID obtiene una compra con sus líneas.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	items, err := uc.purchaseRepo.GetItemsByPurchaseID(id)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, items), nil
}

// List lista compras ordenadas por fecha descendente, con filtro opcional por rango.
func (uc *PurchaseUseCase) List(ctx context.Context, filter repository.DateRangeFilter, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	page.Normalize()
	total, err := uc.purchaseRepo.Count(filter)
	if err != nil {
		return nil, err
	}
	list, err := uc.purchaseRepo.List(filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p, nil))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page.Page, page.Limit, total),
	}, nil
}

func toPurchaseResponse(p *entity.Purchase, items []*entity.PurchaseItem) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:               p.ID,
		SupplierID:       p.SupplierID,
		SupplierName:     p.SupplierName,
		TotalAmount:      p.TotalAmount,
		Status:           p.Status,
		ExpectedDelivery: p.ExpectedDelivery,
		CreatedBy:        p.CreatedBy,
		CreatedByName:    p.CreatedByName,
		PurchaseDate:     p.PurchaseDate,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return resp
}
