package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/comedor/admin-api/internal/core/ports"
)

type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /roles.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200  {array}   roleResponse
// @Failure      500  {object}  errorResponse
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.service.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]roleResponse, len(roles))
	for i, r := range roles {
		out[i] = *toRoleResponse(r)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /roles/:name. Roles still assigned to users are kept.
//
// @Summary      Delete a role
// @Tags         roles
// @Produce      json
// @Param        name  path      string  true  "Role name"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /roles/{name} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteRole(c.Request().Context(), c.Param("name")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "role deleted"})
}
