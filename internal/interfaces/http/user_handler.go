package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/application/roles"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// UserHandler perfiles, administración de usuarios y notificaciones.
type UserHandler struct {
	uc       *usecase.UserUseCase
	workflow *roles.WorkflowUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase, workflow *roles.WorkflowUseCase) *UserHandler {
	return &UserHandler{uc: uc, workflow: workflow}
}

// Register godoc
// @Summary      Registrar perfil del usuario autenticado
// @Description  Crea el perfil con rol viewer. Si ya existe lo devuelve sin cambios.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterProfileRequest  false  "display_name opcional"
// @Success      200   {object}  dto.UserResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "cuenta eliminada"
// @Router       /api/users/me [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterProfileRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Register(c.UserContext(), ports.Identity{UserID: GetUserID(c), Email: GetEmail(c)}, in.DisplayName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil propio con la última solicitud de rol
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar usuarios (admin)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20, máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	if page.Limit > 100 {
		page.Limit = 100
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeRole godoc
// @Summary      Cambiar el rol de un usuario directamente (admin)
// @Description  Reemplaza (superseded) cualquier solicitud pendiente del usuario.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "uid del usuario"
// @Param        body  body      dto.ChangeRoleRequest   true  "rol nuevo"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	var in dto.ChangeRoleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	user, err := h.workflow.DirectChange(c.UserContext(), actorFrom(c), c.Params("id"), entity.Role(in.Role))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserFromEntity(user))
}

// Delete godoc
// @Summary      Eliminar usuario (admin)
// @Description  Borra perfil, solicitudes y notificaciones; la credencial se elimina en segundo plano.
// @Tags         admin
// @Security     Bearer
// @Param        id  path  string  true  "uid del usuario"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Notifications godoc
// @Summary      Notificaciones del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo 50"
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *UserHandler) Notifications(c *fiber.Ctx) error {
	out, err := h.uc.ListNotifications(c.UserContext(), actorFrom(c), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkNotificationRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Param        id  path  string  true  "id de la notificación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [patch]
func (h *UserHandler) MarkNotificationRead(c *fiber.Ctx) error {
	if err := h.uc.MarkNotificationRead(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
