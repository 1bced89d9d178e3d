package repository

import (
	"github.com/shopspring/decimal"

	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBarcode(userID, barcode string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByOwner(userID string, limit, offset int) ([]*entity.Product, error)
	Search(userID, nameFold string, limit, offset int) ([]*entity.Product, error)
	ListLowStock(userID string) ([]*entity.Product, error)
	Delete(id string) error

	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). La fila del
	// producto es la frontera de serialización del motor de movimientos: toda
	// mutación de stock debe pasar por este lock dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateAggregates actualiza solo los campos derivados del libro de
	// movimientos (stock y última valoración de entrada).
	UpdateAggregates(productID string, stock decimal.Decimal, totalCost *decimal.Decimal) error
}
