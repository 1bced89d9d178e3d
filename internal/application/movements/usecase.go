package movements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
)

// maxConflictRetries reintentos internos ante ErrConflict (40001/40P01)
// antes de devolver el error al caller.
const maxConflictRetries = 3

// MovementUseCase es el motor de movimientos de stock: registra entradas y
// salidas y ejecuta el borrado compensatorio, manteniendo el libro de
// movimientos y el stock del producto mutuamente consistentes.
//
// Contrato de atomicidad: cada operación bloquea la fila del producto
// (SELECT FOR UPDATE) dentro de una transacción y aplica el par
// libro+agregado como unidad. Dos salidas concurrentes sobre el mismo
// producto no pueden pasar ambas la verificación de suficiencia con un
// stock viejo.
type MovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, productRepo repository.ProductRepository, movementRepo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, productRepo: productRepo, movementRepo: movementRepo}
}

// InboundInput entrada para RegisterInbound.
type InboundInput struct {
	UserID     string
	ProductID  string
	Quantity   decimal.Decimal
	Lot        *string
	UnitValue  *decimal.Decimal
	OccurredAt string // YYYY-MM-DD; vacío = hoy
}

// OutboundInput entrada para RegisterOutbound.
type OutboundInput struct {
	UserID     string
	ProductID  string
	Quantity   decimal.Decimal
	OccurredAt string // YYYY-MM-DD; vacío = hoy
}

// RegisterInbound registra una entrada de stock: suma Quantity al stock del
// producto y, si se informa UnitValue, sobreescribe TotalCost con esa
// valoración (última conocida, no se acumula ni promedia).
func (uc *MovementUseCase) RegisterInbound(ctx context.Context, in InboundInput) (*entity.Movement, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitValue != nil && in.UnitValue.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	date, err := parseDay(in.OccurredAt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      entity.MovementTypeIN,
		Quantity:  in.Quantity,
		Lot:       in.Lot,
		UnitValue: in.UnitValue,
		Date:      date,
		CreatedAt: now,
		CreatedBy: in.UserID,
	}

	err = uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.UserID != in.UserID {
			return domain.ErrForbidden
		}
		newStock := product.Stock.Add(in.Quantity)
		totalCost := product.TotalCost
		if in.UnitValue != nil {
			totalCost = in.UnitValue
		}
		if err := productRepo.UpdateAggregates(in.ProductID, newStock, totalCost); err != nil {
			return err
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RegisterOutbound registra una salida de stock. Falla con ErrInsufficientStock
// si el stock actual (leído bajo lock) es menor a Quantity; en ese caso no
// queda ningún efecto parcial.
func (uc *MovementUseCase) RegisterOutbound(ctx context.Context, in OutboundInput) (*entity.Movement, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	date, err := parseDay(in.OccurredAt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      entity.MovementTypeOUT,
		Quantity:  in.Quantity,
		Date:      date,
		CreatedAt: now,
		CreatedBy: in.UserID,
	}

	err = uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.UserID != in.UserID {
			return domain.ErrForbidden
		}
		if product.Stock.LessThan(in.Quantity) {
			return domain.ErrInsufficientStock
		}
		newStock := product.Stock.Sub(in.Quantity)
		if err := productRepo.UpdateAggregates(in.ProductID, newStock, product.TotalCost); err != nil {
			return err
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// DeleteInbound elimina una entrada del libro y revierte su efecto:
// resta Quantity del stock del producto. La reversión puede dejar el stock
// negativo (se eliminó una entrada ya consumida); se permite a propósito,
// igual que el sistema original. TotalCost no se revierte: es "última
// valoración conocida", no histórico.
func (uc *MovementUseCase) DeleteInbound(ctx context.Context, userID, movementID string) error {
	return uc.deleteMovement(ctx, userID, movementID, entity.MovementTypeIN)
}

// DeleteOutbound elimina una salida del libro y devuelve su Quantity al
// stock del producto.
func (uc *MovementUseCase) DeleteOutbound(ctx context.Context, userID, movementID string) error {
	return uc.deleteMovement(ctx, userID, movementID, entity.MovementTypeOUT)
}

func (uc *MovementUseCase) deleteMovement(ctx context.Context, userID, movementID, movType string) error {
	if movementID == "" {
		return domain.ErrInvalidInput
	}
	return uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		mov, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if mov == nil || mov.Type != movType {
			return domain.ErrNotFound
		}
		product, err := productRepo.GetForUpdate(mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.UserID != userID {
			return domain.ErrForbidden
		}
		// Delete antes de tocar el agregado: si otro borrado concurrente ya
		// eliminó la fila, Delete devuelve ErrNotFound y la tx se revierte
		// sin ajustar el stock dos veces.
		if err := movRepo.Delete(mov.ID); err != nil {
			return err
		}
		newStock := product.Stock.Sub(mov.SignedQuantity())
		return productRepo.UpdateAggregates(mov.ProductID, newStock, product.TotalCost)
	})
}

// runWithRetry ejecuta la transacción y reintenta ante conflictos de
// serialización/lock (ErrConflict) un número acotado de veces.
func (uc *MovementUseCase) runWithRetry(ctx context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}

// parseDay normaliza una fecha calendario YYYY-MM-DD. Fechas no parseables
// se rechazan (no se truncan). Vacío = hoy.
func parseDay(s string) (*time.Time, error) {
	if s == "" {
		t := time.Now().Truncate(24 * time.Hour)
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
