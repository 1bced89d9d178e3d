package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// Stock inicial opcional; el resto del stock se mueve vía movimientos.
type CreateProductRequest struct {
	Name     string           `json:"name"`
	Category string           `json:"category,omitempty"`
	Barcode  string           `json:"barcode,omitempty"`
	Stock    *decimal.Decimal `json:"stock,omitempty"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
// Stock y TotalCost no son editables aquí: los maneja el motor de movimientos.
type UpdateProductRequest struct {
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Barcode  *string          `json:"barcode,omitempty"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ProductResponse representación JSON de un producto.
type ProductResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category,omitempty"`
	Barcode   string           `json:"barcode,omitempty"`
	Stock     decimal.Decimal  `json:"stock"`
	MinStock  decimal.Decimal  `json:"min_stock"`
	UnitCost  decimal.Decimal  `json:"unit_cost"`
	TotalCost *decimal.Decimal `json:"total_cost,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ImportNFEResult resultado del import de un XML de NF-e: productos creados,
// entradas registradas y errores por ítem (el import es best-effort por ítem).
type ImportNFEResult struct {
	ProductsCreated  int      `json:"products_created"`
	InboundsRecorded int      `json:"inbounds_recorded"`
	Errors           []string `json:"errors,omitempty"`
}
