package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/application/movements"
	"github.com/costeopro/costeo-api/internal/application/nfe"
	"github.com/costeopro/costeo-api/internal/application/usecase"
	"github.com/costeopro/costeo-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP de productos (protegido).
type ProductHandler struct {
	uc         *usecase.ProductUseCase
	movementUC *movements.MovementUseCase
	importUC   *nfe.ImportUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, movementUC *movements.MovementUseCase, importUC *nfe.ImportUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, movementUC: movementUC, importUC: importUC}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Create(userID, in)
	if err != nil {
		return productError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// List lista los productos de la cuenta.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	products, err := h.uc.List(GetUserID(c), page.Limit, page.Offset)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(products)
}

// Search busca productos por nombre (insensible a mayúsculas y tildes).
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	products, err := h.uc.Search(GetUserID(c), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(products)
}

// ListLowStock lista los productos en o por debajo del stock mínimo.
func (h *ProductHandler) ListLowStock(c *fiber.Ctx) error {
	products, err := h.uc.ListLowStock(GetUserID(c))
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(products)
}

// GetByID obtiene un producto.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.GetByID(GetUserID(c), c.Params("id"))
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(product)
}

// Update actualiza un producto.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Update(GetUserID(c), c.Params("id"), in)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(product)
}

// Delete elimina un producto.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetUserID(c), c.Params("id")); err != nil {
		return productError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListInbound godoc
// @Summary      Historial de entradas de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/inbound [get]
func (h *ProductHandler) ListInbound(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	movs, err := h.movementUC.ListProductInbound(c.Context(), GetUserID(c), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return movementError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, *toMovementResponse(m))
	}
	return c.JSON(out)
}

// ImportNFE godoc
// @Summary      Importar XML de NF-e como entradas de stock
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        xml  formData  file  true  "Archivo XML de la NF-e"
// @Success      200  {object}  dto.ImportNFEResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/import-nfe [post]
func (h *ProductHandler) ImportNFE(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("xml")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "archivo XML no enviado"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	result, err := h.importUC.ImportXML(c.Context(), GetUserID(c), data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "XML de NF-e inválido o sin ítems"})
		}
		return movementError(c, err)
	}
	return c.JSON(result)
}

func productError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	default:
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible"})
	}
}
