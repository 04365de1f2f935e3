package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, customer_id, total_amount, payment_method, created_by, sale_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CustomerID, sale.TotalAmount, sale.PaymentMethod,
		sale.CreatedBy, sale.SaleDate, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta con los nombres de cliente y creador (joins).
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT s.id, s.customer_id, s.total_amount, s.payment_method, s.created_by,
		       s.sale_date, s.created_at, COALESCE(c.name, ''), COALESCE(u.username, '')
		FROM sales s
		LEFT JOIN customers c ON s.customer_id = c.id
		LEFT JOIN users u ON s.created_by = u.id
		WHERE s.id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CustomerID, &s.TotalAmount, &s.PaymentMethod, &s.CreatedBy,
		&s.SaleDate, &s.CreatedAt, &s.CustomerName, &s.CreatedByName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetItemsBySaleID obtiene las líneas de una venta con el nombre del producto.
func (r *SaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT si.id, si.sale_id, si.product_id, si.quantity, si.unit_price, si.total_price, p.name
		FROM sale_items si
		JOIN products p ON si.product_id = p.id
		WHERE si.sale_id = $1`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.ProductName); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// List lista ventas por fecha descendente con filtro opcional de rango.
func (r *SaleRepo) List(filter repository.DateRangeFilter, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT s.id, s.customer_id, s.total_amount, s.payment_method, s.created_by,
		       s.sale_date, s.created_at, COALESCE(c.name, ''), COALESCE(u.username, '')
		FROM sales s
		LEFT JOIN customers c ON s.customer_id = c.id
		LEFT JOIN users u ON s.created_by = u.id
		WHERE ($1::timestamptz IS NULL OR s.sale_date >= $1)
		  AND ($2::timestamptz IS NULL OR s.sale_date <= $2)
		ORDER BY s.sale_date DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, filter.StartDate, filter.EndDate, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.TotalAmount, &s.PaymentMethod, &s.CreatedBy,
			&s.SaleDate, &s.CreatedAt, &s.CustomerName, &s.CreatedByName); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Count cuenta ventas dentro del mismo filtro de List.
func (r *SaleRepo) Count(filter repository.DateRangeFilter) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM sales
		 WHERE ($1::timestamptz IS NULL OR sale_date >= $1)
		   AND ($2::timestamptz IS NULL OR sale_date <= $2)`,
		filter.StartDate, filter.EndDate,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return total, nil
}

// Delete elimina la cabecera; las líneas caen en cascada (esquema).
func (r *SaleRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return nil
}
