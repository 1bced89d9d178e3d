package repository

import "github.com/costeopro/costeo-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia para el libro de movimientos.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	Delete(id string) error
	// ListByOwner lista los movimientos de los productos de una cuenta,
	// opcionalmente filtrados por producto (productID vacío = todos).
	// Orden: fecha descendente con desempate determinista.
	ListByOwner(userID, productID string, limit, offset int) ([]*entity.Movement, error)
	// ListInboundByProduct historial de entradas de un producto (fecha descendente).
	ListInboundByProduct(productID string, limit, offset int) ([]*entity.Movement, error)
}
