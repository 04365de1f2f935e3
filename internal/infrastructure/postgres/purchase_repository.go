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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, supplier_id, total_amount, status, expected_delivery, created_by, purchase_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.TotalAmount, purchase.Status,
		purchase.ExpectedDelivery, purchase.CreatedBy, purchase.PurchaseDate, purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de compra.
func (r *PurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.PurchaseID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// GetByID obtiene una compra con los nombres de proveedor y creador (joins).
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `
		SELECT p.id, p.supplier_id, p.total_amount, p.status, p.expected_delivery,
		       p.created_by, p.purchase_date, p.created_at, COALESCE(s.name, ''), COALESCE(u.username, '')
		FROM purchases p
		LEFT JOIN suppliers s ON p.supplier_id = s.id
		LEFT JOIN users u ON p.created_by = u.id
		WHERE p.id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.SupplierID, &p.TotalAmount, &p.Status, &p.ExpectedDelivery,
		&p.CreatedBy, &p.PurchaseDate, &p.CreatedAt, &p.SupplierName, &p.CreatedByName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// GetItemsByPurchaseID obtiene las líneas de una compra con el nombre del producto.
func (r *PurchaseRepo) GetItemsByPurchaseID(purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT pi.id, pi.purchase_id, pi.product_id, pi.quantity, pi.unit_price, pi.total_price, p.name
		FROM purchase_items pi
		JOIN products p ON pi.product_id = p.id
		WHERE pi.purchase_id = $1`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseItem
	for rows.Next() {
		var item entity.PurchaseItem
		if err := rows.Scan(&item.ID, &item.PurchaseID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.ProductName); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// UpdateStatus transiciona el estado de la compra.
func (r *PurchaseRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE purchases SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	return nil
}

// List lista compras por fecha descendente con filtro opcional de rango.
func (r *PurchaseRepo) List(filter repository.DateRangeFilter, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT p.id, p.supplier_id, p.total_amount, p.status, p.expected_delivery,
		       p.created_by, p.purchase_date, p.created_at, COALESCE(s.name, ''), COALESCE(u.username, '')
		FROM purchases p
		LEFT JOIN suppliers s ON p.supplier_id = s.id
		LEFT JOIN users u ON p.created_by = u.id
		WHERE ($1::timestamptz IS NULL OR p.purchase_date >= $1)
		  AND ($2::timestamptz IS NULL OR p.purchase_date <= $2)
		ORDER BY p.purchase_date DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, filter.StartDate, filter.EndDate, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.TotalAmount, &p.Status, &p.ExpectedDelivery,
			&p.CreatedBy, &p.PurchaseDate, &p.CreatedAt, &p.SupplierName, &p.CreatedByName); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Count cuenta compras dentro del mismo filtro de List.
func (r *PurchaseRepo) Count(filter repository.DateRangeFilter) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM purchases
		 WHERE ($1::timestamptz IS NULL OR purchase_date >= $1)
		   AND ($2::timestamptz IS NULL OR purchase_date <= $2)`,
		filter.StartDate, filter.EndDate,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}
	return total, nil
}

// Delete elimina la cabecera; las líneas caen en cascada (esquema).
func (r *PurchaseRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	return nil
}
