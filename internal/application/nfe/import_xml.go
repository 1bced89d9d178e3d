package nfe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/application/movements"
	"github.com/costeopro/costeo-api/internal/application/usecase"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
)

// ImportUseCase importa los ítems de un XML de NF-e como entradas de stock.
// Cada ítem pasa por el motor de movimientos, de modo que el stock importado
// queda respaldado por registros del libro igual que una entrada manual.
// El import es best-effort por ítem: los que fallan se reportan y el resto
// continúa.
type ImportUseCase struct {
	productRepo repository.ProductRepository
	movementUC  *movements.MovementUseCase
}

// NewImportUseCase construye el caso de uso de import.
func NewImportUseCase(productRepo repository.ProductRepository, movementUC *movements.MovementUseCase) *ImportUseCase {
	return &ImportUseCase{productRepo: productRepo, movementUC: movementUC}
}

// ImportXML parsea el XML (nfeProc/NFe/infNFe/det) y registra una entrada por
// ítem. Productos inexistentes se crean (match por código de barras cEAN).
func (uc *ImportUseCase) ImportXML(ctx context.Context, userID string, xmlData []byte) (*dto.ImportNFEResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlData); err != nil {
		return nil, domain.ErrInvalidInput
	}
	items := doc.FindElements("//infNFe/det")
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	result := &dto.ImportNFEResult{}
	for i, det := range items {
		if err := uc.importItem(ctx, userID, det, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: %v", i+1, err))
		}
	}
	return result, nil
}

func (uc *ImportUseCase) importItem(ctx context.Context, userID string, det *etree.Element, result *dto.ImportNFEResult) error {
	prod := det.SelectElement("prod")
	if prod == nil {
		return domain.ErrInvalidInput
	}
	name := strings.TrimSpace(elementText(prod, "xProd"))
	if name == "" {
		return domain.ErrInvalidInput
	}
	barcode := strings.TrimSpace(elementText(prod, "cEAN"))
	if barcode == "SEM GTIN" {
		barcode = ""
	}

	quantity, err := decimal.NewFromString(elementText(prod, "qCom"))
	if err != nil || !quantity.GreaterThan(decimal.Zero) {
		quantity = decimal.NewFromInt(1)
	}
	unitValue, err := decimal.NewFromString(elementText(prod, "vUnCom"))
	if err != nil || unitValue.IsNegative() {
		unitValue = decimal.Zero
	}
	totalValue, err := decimal.NewFromString(elementText(prod, "vProd"))
	if err != nil || totalValue.IsNegative() {
		totalValue = quantity.Mul(unitValue)
	}

	product, err := uc.findExisting(userID, barcode)
	if err != nil {
		return err
	}
	if product == nil {
		now := time.Now()
		product = &entity.Product{
			ID:        uuid.New().String(),
			UserID:    userID,
			Name:      name,
			NameFold:  usecase.FoldName(name),
			Barcode:   barcode,
			Stock:     decimal.Zero,
			MinStock:  decimal.Zero,
			UnitCost:  unitValue,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.productRepo.Create(product); err != nil {
			return err
		}
		result.ProductsCreated++
	}

	_, err = uc.movementUC.RegisterInbound(ctx, movements.InboundInput{
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitValue: &totalValue,
	})
	if err != nil {
		return err
	}
	result.InboundsRecorded++
	return nil
}

func (uc *ImportUseCase) findExisting(userID, barcode string) (*entity.Product, error) {
	if barcode == "" {
		return nil, nil
	}
	return uc.productRepo.GetByBarcode(userID, barcode)
}

func elementText(parent *etree.Element, tag string) string {
	el := parent.SelectElement(tag)
	if el == nil {
		return ""
	}
	return el.Text()
}
