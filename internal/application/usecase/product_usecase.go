package usecase

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock y TotalCost se
// manejan vía el motor de movimientos; aquí solo el stock inicial.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// FoldName normaliza un nombre para búsqueda: minúsculas y sin marcas
// diacríticas ("Açúcar Refinado" -> "acucar refinado").
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Create crea un nuevo producto para la cuenta.
func (uc *ProductUseCase) Create(userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	stock := decimal.Zero
	if in.Stock != nil {
		if in.Stock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		stock = *in.Stock
	}
	minStock := decimal.Zero
	if in.MinStock != nil {
		minStock = *in.MinStock
	}
	unitCost := decimal.Zero
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		NameFold:  FoldName(name),
		Category:  in.Category,
		Barcode:   in.Barcode,
		Stock:     stock,
		MinStock:  minStock,
		UnitCost:  unitCost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la cuenta.
func (uc *ProductUseCase) GetByID(userID, id string) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(userID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista los productos de la cuenta.
func (uc *ProductUseCase) List(userID string, limit, offset int) ([]dto.ProductResponse, error) {
	products, err := uc.repo.ListByOwner(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// Search busca productos por nombre, insensible a mayúsculas y tildes.
func (uc *ProductUseCase) Search(userID, query string, limit, offset int) ([]dto.ProductResponse, error) {
	folded := FoldName(query)
	if folded == "" {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.repo.Search(userID, folded, limit, offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// ListLowStock lista los productos con stock en o por debajo del mínimo.
func (uc *ProductUseCase) ListLowStock(userID string) ([]dto.ProductResponse, error) {
	products, err := uc.repo.ListLowStock(userID)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// Update actualiza un producto. No permite modificar Stock ni TotalCost
// (se manejan vía movimientos).
func (uc *ProductUseCase) Update(userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
		product.NameFold = FoldName(name)
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.UnitCost != nil {
		product.UnitCost = *in.UnitCost
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto de la cuenta. Los movimientos históricos del
// producto quedan en el libro (referencias colgantes toleradas).
func (uc *ProductUseCase) Delete(userID, id string) error {
	if _, err := uc.getOwned(userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func (uc *ProductUseCase) getOwned(userID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Barcode:   p.Barcode,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		UnitCost:  p.UnitCost,
		TotalCost: p.TotalCost,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductResponses(products []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out
}
