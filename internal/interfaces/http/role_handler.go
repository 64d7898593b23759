package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/roles"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// RoleRequestHandler flujo de solicitudes de cambio de rol.
type RoleRequestHandler struct {
	workflow *roles.WorkflowUseCase
}

// NewRoleRequestHandler construye el handler.
func NewRoleRequestHandler(workflow *roles.WorkflowUseCase) *RoleRequestHandler {
	return &RoleRequestHandler{workflow: workflow}
}

// Submit godoc
// @Summary      Solicitar cambio de rol
// @Description  Una solicitud pendiente anterior del mismo usuario queda superseded.
// @Tags         role-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SubmitRoleRequest  true  "rol solicitado"
// @Success      201   {object}  dto.RoleRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/role-requests [post]
func (h *RoleRequestHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitRoleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	req, err := h.workflow.Submit(c.UserContext(), actorFrom(c), entity.Role(in.RequestedRole))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RoleRequestFromEntity(req))
}

// ListPending godoc
// @Summary      Solicitudes pendientes (admin)
// @Tags         role-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.PendingRoleRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/role-requests/pending [get]
func (h *RoleRequestHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.workflow.ListPending(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PendingRoleRequestResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PendingFromEntity(p))
	}
	return c.JSON(out)
}

// Decide godoc
// @Summary      Aprobar o rechazar la solicitud pendiente de un usuario (admin)
// @Description  request_id opcional: si no coincide con la pendiente actual responde 409.
// @Tags         role-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        userId  path      string               true  "uid del solicitante"
// @Param        body    body      dto.DecisionRequest  true  "approve | reject"
// @Success      200     {object}  dto.RoleRequestResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/role-requests/{userId}/decision [post]
func (h *RoleRequestHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecisionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	req, err := h.workflow.Decide(c.UserContext(), actorFrom(c), c.Params("userId"), in.RequestID, entity.DecisionAction(in.Action))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RoleRequestFromEntity(req))
}
