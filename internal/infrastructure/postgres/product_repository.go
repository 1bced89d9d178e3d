package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, user_id, name, name_fold, category, barcode, stock, min_stock, unit_cost, total_cost, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.UserID, product.Name, product.NameFold, product.Category,
		product.Barcode, product.Stock, product.MinStock, product.UnitCost,
		product.TotalCost, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve nil, nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product for update")
}

// GetByBarcode busca un producto de la cuenta por código de barras.
func (r *ProductRepo) GetByBarcode(userID, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 AND barcode = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, userID, barcode), "get product by barcode")
}

// Update actualiza los campos editables de un producto (no stock/total_cost).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, name_fold = $3, category = $4, barcode = $5,
		    min_stock = $6, unit_cost = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.NameFold, product.Category,
		product.Barcode, product.MinStock, product.UnitCost, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateAggregates actualiza los campos derivados del libro de movimientos.
func (r *ProductRepo) UpdateAggregates(productID string, stock decimal.Decimal, totalCost *decimal.Decimal) error {
	query := `UPDATE products SET stock = $2, total_cost = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, productID, stock, totalCost)
	if err != nil {
		return fmt.Errorf("update product aggregates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOwner lista los productos de una cuenta, por nombre ascendente.
func (r *ProductRepo) ListByOwner(userID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE user_id = $1
		ORDER BY name_fold, id
		LIMIT $2 OFFSET $3`
	return r.scanMany(query, "list products", userID, limit, offset)
}

// Search busca productos por nombre normalizado (prefijo o substring).
func (r *ProductRepo) Search(userID, nameFold string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE user_id = $1 AND name_fold LIKE '%' || $2 || '%'
		ORDER BY name_fold, id
		LIMIT $3 OFFSET $4`
	return r.scanMany(query, "search products", userID, nameFold, limit, offset)
}

// ListLowStock lista productos con stock en o por debajo del mínimo configurado.
func (r *ProductRepo) ListLowStock(userID string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE user_id = $1 AND min_stock > 0 AND stock <= min_stock
		ORDER BY name_fold, id`
	return r.scanMany(query, "list low stock", userID)
}

// Delete elimina un producto. Los movimientos históricos no se tocan.
func (r *ProductRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.NameFold, &p.Category, &p.Barcode,
		&p.Stock, &p.MinStock, &p.UnitCost, &p.TotalCost, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(query, op string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.NameFold, &p.Category, &p.Barcode,
			&p.Stock, &p.MinStock, &p.UnitCost, &p.TotalCost, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
