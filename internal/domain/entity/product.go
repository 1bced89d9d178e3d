package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto/insumo del catálogo de costeo.
// Stock y TotalCost son agregados derivados del libro de movimientos:
// solo el motor de movimientos los modifica. TotalCost guarda la última
// valoración de entrada conocida (se sobreescribe, no se acumula).
type Product struct {
	ID        string
	UserID    string // cuenta dueña del producto
	Name      string
	NameFold  string // nombre en minúsculas y sin tildes, para búsqueda
	Category  string
	Barcode   string
	Stock     decimal.Decimal
	MinStock  decimal.Decimal
	UnitCost  decimal.Decimal
	TotalCost *decimal.Decimal // última valoración de entrada; nil si nunca se informó
	CreatedAt time.Time
	UpdatedAt time.Time
}
