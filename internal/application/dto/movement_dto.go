package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterInboundRequest body para POST /api/movements/inbound.
// OccurredAt acepta solo fecha calendario YYYY-MM-DD; vacío = hoy.
type RegisterInboundRequest struct {
	ProductID  string           `json:"product_id"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Lot        *string          `json:"lot,omitempty"`
	UnitValue  *decimal.Decimal `json:"unit_value,omitempty"`
	OccurredAt string           `json:"occurred_at,omitempty"`
}

// RegisterOutboundRequest body para POST /api/movements/outbound.
type RegisterOutboundRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	OccurredAt string          `json:"occurred_at,omitempty"`
}

// MovementResponse representación JSON de un movimiento del libro.
// Type se expone como "entrada" | "salida" (nomenclatura del frontend).
type MovementResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Type      string           `json:"tipo"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Lot       *string          `json:"lot,omitempty"`
	UnitValue *decimal.Decimal `json:"unit_value,omitempty"`
	Date      *string          `json:"date,omitempty"` // YYYY-MM-DD
	CreatedAt time.Time        `json:"created_at"`
	CreatedBy string           `json:"created_by"`
}

// MovementListResponse respuesta de GET /api/movements.
type MovementListResponse struct {
	Total     int                `json:"total"`
	Movements []MovementResponse `json:"movements"`
}
