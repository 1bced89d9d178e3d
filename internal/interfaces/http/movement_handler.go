package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/application/movements"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos (protegido, plan pago).
type MovementHandler struct {
	uc *movements.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movements.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// RegisterInbound godoc
// @Summary      Registrar entrada de stock
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterInboundRequest  true  "product_id, quantity, lot?, unit_value?, occurred_at? (YYYY-MM-DD)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/inbound [post]
func (h *MovementHandler) RegisterInbound(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RegisterInbound(c.Context(), movements.InboundInput{
		UserID:     userID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		Lot:        in.Lot,
		UnitValue:  in.UnitValue,
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// RegisterOutbound godoc
// @Summary      Registrar salida de stock
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterOutboundRequest  true  "product_id, quantity, occurred_at? (YYYY-MM-DD)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/outbound [post]
func (h *MovementHandler) RegisterOutbound(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterOutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RegisterOutbound(c.Context(), movements.OutboundInput{
		UserID:     userID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// DeleteInbound godoc
// @Summary      Eliminar una entrada (borrado compensatorio: revierte el stock)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/inbound/{id} [delete]
func (h *MovementHandler) DeleteInbound(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.DeleteInbound(c.Context(), userID, c.Params("id")); err != nil {
		return movementError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// DeleteOutbound godoc
// @Summary      Eliminar una salida (borrado compensatorio: devuelve el stock)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/outbound/{id} [delete]
func (h *MovementHandler) DeleteOutbound(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.DeleteOutbound(c.Context(), userID, c.Params("id")); err != nil {
		return movementError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// List godoc
// @Summary      Listar movimientos (entradas y salidas fusionadas, más recientes primero)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        limit       query  int     false  "Máximo de filas (default 50)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	movs, err := h.uc.List(c.Context(), userID, c.Query("product_id"), page.Limit, page.Offset)
	if err != nil {
		return movementError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, *toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{Total: len(out), Movements: out})
}

// movementError mapea errores de dominio del motor de movimientos a un status
// HTTP estable. Nada se degrada a éxito silencioso.
func movementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o movimiento no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT_RETRY", Message: "conflicto de concurrencia, reintente"})
	default:
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible"})
	}
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	tipo := "entrada"
	if m.Type == entity.MovementTypeOUT {
		tipo = "salida"
	}
	var date *string
	if m.Date != nil {
		s := m.Date.Format(time.DateOnly)
		date = &s
	}
	return &dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      tipo,
		Quantity:  m.Quantity,
		Lot:       m.Lot,
		UnitValue: m.UnitValue,
		Date:      date,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}
