package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/costeopro/costeo-api/internal/application/dto"
)

// planChecker es el contrato mínimo que necesita el middleware para verificar
// el plan de la cuenta. Lo implementa *auth.AuthUseCase; la interfaz evita el
// import circular.
type planChecker interface {
	HasPaidPlan(ctx context.Context, userID string) (bool, error)
}

// RequirePaidPlan devuelve un middleware Fiber que bloquea las cuentas del
// plan gratuito. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
// El plan se consulta en BD por request: un upgrade aplica de inmediato sin
// reemitir el token.
//
// Comportamiento:
//   - 403 Forbidden → plan gratuito, funcionalidad solo para suscriptores.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la BD.
//   - Si no hay user_id en el contexto, responde 401.
func RequirePaidPlan(checker planChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		paid, err := checker.HasPaidPlan(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PLAN_CHECK_FAILED",
				Message: "no se pudo verificar el plan, intente más tarde",
			})
		}
		if !paid {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "PLAN_REQUIRED",
				Message: "funcionalidad disponible solo para suscriptores; haga upgrade para acceder a movimientos",
			})
		}
		return c.Next()
	}
}
