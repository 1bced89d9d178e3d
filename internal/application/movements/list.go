package movements

import (
	"context"

	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// List devuelve la vista fusionada de entradas y salidas de los productos de
// la cuenta, ordenada por fecha descendente. productID vacío = todos los
// productos. El orden es determinista: llamadas repetidas sobre los mismos
// datos devuelven la misma secuencia.
func (uc *MovementUseCase) List(ctx context.Context, userID, productID string, limit, offset int) ([]*entity.Movement, error) {
	if productID != "" {
		product, err := uc.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.UserID != userID {
			return nil, domain.ErrForbidden
		}
	}
	return uc.movementRepo.ListByOwner(userID, productID, limit, offset)
}

// ListProductInbound historial de entradas de un producto (fecha descendente).
func (uc *MovementUseCase) ListProductInbound(ctx context.Context, userID, productID string, limit, offset int) ([]*entity.Movement, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return uc.movementRepo.ListInboundByProduct(productID, limit, offset)
}
