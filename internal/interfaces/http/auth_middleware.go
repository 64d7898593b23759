package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// Locals keys de la identidad autenticada en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// RoleResolver devuelve el rol vigente del usuario (RoleNone si no tiene perfil).
// Lo implementa *usecase.UserUseCase.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (entity.Role, error)
}

// AuthMiddleware valida el Bearer Token con el proveedor de identidad y deja
// uid y email en c.Locals. El rol nunca se toma del token.
func AuthMiddleware(verifier ports.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := verifier.Verify(c.UserContext(), token)
		if err != nil || id == nil || id.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalEmail, id.Email)
		return c.Next()
	}
}

// ProfileMiddleware carga el rol del perfil en cada petición. Debe ir DESPUÉS de AuthMiddleware.
func ProfileMiddleware(roles RoleResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := roles.RoleOf(c.UserContext(), GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalRole, string(role))
		return c.Next()
	}
}

// RequireRole corta con 403 si el rol cargado por ProfileMiddleware no está permitido.
func RequireRole(allowed ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := entity.Role(GetRole(c))
		for _, r := range allowed {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "el rol '" + role.String() + "' no tiene acceso a este recurso",
		})
	}
}

// GetUserID devuelve el uid autenticado.
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetEmail devuelve el email autenticado.
func GetEmail(c *fiber.Ctx) string { return localString(c, LocalEmail) }

// GetRole devuelve el rol vigente (vacío si ProfileMiddleware no corrió).
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// actorFrom arma el actor de dominio a partir de los locals.
func actorFrom(c *fiber.Ctx) entity.Actor {
	role := entity.Role(GetRole(c))
	if role == "" {
		role = entity.RoleNone
	}
	return entity.Actor{ID: GetUserID(c), Email: GetEmail(c), Role: role}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
