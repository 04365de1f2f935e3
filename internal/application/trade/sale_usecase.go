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

// PaymentMethodDefault método de pago cuando el caller no indica uno.
const PaymentMethodDefault = "cash"

// SaleUseCase crea y cancela ventas de forma transaccional: validación de
// stock, precio de catálogo como snapshot, totales con aritmética decimal y
// descuento de stock, todo en una sola unidad de trabajo.
type SaleUseCase struct {
	txRunner     TxRunner
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, saleRepo repository.SaleRepository, customerRepo repository.CustomerRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, saleRepo: saleRepo, customerRepo: customerRepo}
}

// Create crea la venta. Dentro de la transacción, por cada línea: bloquea la
// fila del producto, verifica stock suficiente, toma el precio vigente del
// catálogo, descuenta stock y acumula el total. Luego persiste cabecera y
// líneas. Cualquier error descarta todo y se reporta al caller sin reintentos.
func (uc *SaleUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta necesita al menos una línea", domain.ErrInvalidInput)
	}
	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = PaymentMethodDefault
	}

	// Validar cliente si viene referenciado (fuera de la tx, solo lectura)
	var customerName string
	if in.CustomerID != nil && *in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(*in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, *in.CustomerID)
		}
		customerName = customer.Name
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		PaymentMethod: paymentMethod,
		CreatedBy:     userID,
		SaleDate:      now,
		CreatedAt:     now,
	}
	var items []*entity.SaleItem

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
	) error {
		total := decimal.Zero
		for _, req := range in.Items {
			if req.Quantity <= 0 {
				return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
			}
			product, err := productRepo.GetForUpdate(req.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, req.ProductID)
			}
			if product.StockQuantity < req.Quantity {
				return fmt.Errorf("%w para el producto %s", domain.ErrInsufficientStock, product.Name)
			}
			// Precio autoritativo: el del catálogo al momento de procesar
			lineTotal := product.Price.Mul(decimal.NewFromInt(req.Quantity))
			total = total.Add(lineTotal)
			if err := productRepo.AdjustStock(product.ID, -req.Quantity); err != nil {
				return err
			}
			items = append(items, &entity.SaleItem{
				ID:         uuid.New().String(),
				SaleID:     sale.ID,
				ProductID:  product.ID,
				Quantity:   req.Quantity,
				UnitPrice:  product.Price,
				TotalPrice: lineTotal,
			})
		}
		sale.TotalAmount = total
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale.CustomerName = customerName
	return toSaleResponse(sale, items), nil
}

// Cancel revierte la venta: repone el stock de cada línea y elimina la
// cabecera (las líneas caen en cascada), todo en una transacción. Una venta
// inexistente es un error explícito, no un no-op.
func (uc *SaleUseCase) Cancel(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
	) error {
		sale, err := saleRepo.GetByID(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
		}
		items, err := saleRepo.GetItemsBySaleID(id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := productRepo.AdjustStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return saleRepo.Delete(id)
	})
}

// GetByID obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	items, err := uc.saleRepo.GetItemsBySaleID(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// List lista ventas ordenadas por fecha descendente, con filtro opcional por rango.
func (uc *SaleUseCase) List(ctx context.Context, filter repository.DateRangeFilter, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.Normalize()
	total, err := uc.saleRepo.Count(filter)
	if err != nil {
		return nil, err
	}
	list, err := uc.saleRepo.List(filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, nil))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page.Page, page.Limit, total),
	}, nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		CreatedBy:     s.CreatedBy,
		CreatedByName: s.CreatedByName,
		SaleDate:      s.SaleDate,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
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
