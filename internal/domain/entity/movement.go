package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Movement representa un registro inmutable del libro de movimientos:
// una entrada o salida de stock de un producto. Solo se elimina completo
// (borrado compensatorio); nunca se edita.
type Movement struct {
	ID        string
	ProductID string
	Type      string           // IN | OUT
	Quantity  decimal.Decimal  // siempre positiva; el signo lo da Type
	Lot       *string          // solo entradas
	UnitValue *decimal.Decimal // valoración informada en la entrada
	Date      *time.Time       // fecha del movimiento, granularidad de día
	CreatedAt time.Time
	CreatedBy string // UserID
}

// IsInbound indica si el movimiento es una entrada.
func (m *Movement) IsInbound() bool { return m.Type == MovementTypeIN }

// SignedQuantity devuelve la cantidad con signo: positiva para entradas,
// negativa para salidas. Útil para recalcular el stock por replay.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Type == MovementTypeOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
