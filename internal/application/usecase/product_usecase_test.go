package usecase_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/application/usecase"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de repositorio en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) GetByBarcode(userID, barcode string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.UserID == userID && p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateAggregates(productID string, stock decimal.Decimal, totalCost *decimal.Decimal) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.TotalCost = totalCost
	return nil
}

func (r *fakeProductRepo) ListByOwner(userID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Search emula el LIKE sobre name_fold del repositorio real.
func (r *fakeProductRepo) Search(userID, nameFold string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.UserID == userID && strings.Contains(p.NameFold, nameFold) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListLowStock(userID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.UserID == userID && p.MinStock.GreaterThan(decimal.Zero) && p.Stock.LessThanOrEqual(p.MinStock) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

const (
	ownerID    = "00000000-0000-0000-0000-0000000000aa"
	strangerID = "00000000-0000-0000-0000-0000000000bb"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// FoldName
// ──────────────────────────────────────────────────────────────────────────────

func TestFoldName_QuitaTildesYMayusculas(t *testing.T) {
	cases := map[string]string{
		"Açúcar Refinado":  "acucar refinado",
		"CAFÉ Torrado":     "cafe torrado",
		"  Feijão Preto  ": "feijao preto",
		"harina":           "harina",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, usecase.FoldName(in), "FoldName(%q)", in)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NombreObligatorio(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	_, err := uc.Create(ownerID, dto.CreateProductRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := dec("-1")
	_, err = uc.Create(ownerID, dto.CreateProductRequest{Name: "Arroz", Stock: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock inicial negativo se rechaza")
}

func TestCreate_StockInicialOpcional(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	resp, err := uc.Create(ownerID, dto.CreateProductRequest{Name: "Arroz Integral"})
	require.NoError(t, err)
	assert.True(t, resp.Stock.IsZero(), "sin stock inicial arranca en 0")

	ten := dec("10")
	resp, err = uc.Create(ownerID, dto.CreateProductRequest{Name: "Lentejas", Stock: &ten})
	require.NoError(t, err)
	assert.True(t, resp.Stock.Equal(dec("10")))
}

func TestSearch_InsensibleATildes(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Create(ownerID, dto.CreateProductRequest{Name: "Açúcar Refinado"})
	require.NoError(t, err)
	_, err = uc.Create(ownerID, dto.CreateProductRequest{Name: "Harina de Trigo"})
	require.NoError(t, err)
	_, err = uc.Create(strangerID, dto.CreateProductRequest{Name: "Açúcar Mascavo"})
	require.NoError(t, err)

	// La consulta con o sin tildes encuentra lo mismo, y solo de la cuenta.
	for _, q := range []string{"açúcar", "ACUCAR", "acu"} {
		got, err := uc.Search(ownerID, q, 50, 0)
		require.NoError(t, err)
		require.Len(t, got, 1, "query %q", q)
		assert.Equal(t, "Açúcar Refinado", got[0].Name)
	}

	_, err = uc.Search(ownerID, "   ", 50, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "consulta vacía se rechaza")
}

func TestUpdate_NoTocaStock(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	five := dec("5")
	created, err := uc.Create(ownerID, dto.CreateProductRequest{Name: "Sal", Stock: &five})
	require.NoError(t, err)

	newName := "Sal Marina"
	updated, err := uc.Update(ownerID, created.ID, dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Sal Marina", updated.Name)
	assert.True(t, updated.Stock.Equal(dec("5")), "el update de catálogo no altera el stock")
	assert.Equal(t, "sal marina", repo.products[created.ID].NameFold, "NameFold se recalcula")
}

func TestAccesoAjeno_Forbidden(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	created, err := uc.Create(ownerID, dto.CreateProductRequest{Name: "Aceite"})
	require.NoError(t, err)

	_, err = uc.GetByID(strangerID, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, uc.Delete(strangerID, created.ID), domain.ErrForbidden)

	_, err = uc.GetByID(ownerID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLowStock_SoloBajoMinimo(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	two, ten := dec("2"), dec("10")
	low, err := uc.Create(ownerID, dto.CreateProductRequest{Name: "Levadura", Stock: &two, MinStock: &ten})
	require.NoError(t, err)
	_, err = uc.Create(ownerID, dto.CreateProductRequest{Name: "Azúcar", Stock: &ten, MinStock: &two})
	require.NoError(t, err)
	// min_stock en 0: nunca alerta, aunque el stock sea 0.
	_, err = uc.Create(ownerID, dto.CreateProductRequest{Name: "Canela"})
	require.NoError(t, err)

	got, err := uc.ListLowStock(ownerID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, low.ID, got[0].ID)
}
