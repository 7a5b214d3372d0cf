package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/comedor/admin-api/internal/core/ports"
)

// UserHandler exposes the user provisioning workflow.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /users.
//
// The generated password is e-mailed to the user and never returned.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.CreateUser(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// List handles GET /users/:page.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page      path      int     true   "Page number (1-based)"
// @Param        pageSize  query     int     false  "Page size (default 10, max 100)"
// @Param        role      query     string  false  "Role name filter"
// @Success      200       {object}  listUsersResponse
// @Failure      400       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /users/{page} [get]
func (h *UserHandler) List(c echo.Context) error {
	// Unparseable numbers fall back to the service defaults.
	page, _ := strconv.Atoi(c.Param("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	res, err := h.service.ListUsers(c.Request().Context(), ports.ListUsersInput{
		Page:     page,
		PageSize: pageSize,
		RoleName: c.QueryParam("role"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Users:       toUserResponses(res.Users),
		TotalPages:  res.TotalPages,
		CurrentPage: res.CurrentPage,
		PageSize:    res.PageSize,
	})
}

// ByRole handles GET /users/role/:roleName.
//
// @Summary      List users by role
// @Tags         users
// @Produce      json
// @Param        roleName  path      string  true  "Role name"
// @Success      200       {array}   userResponse
// @Failure      400       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /users/role/{roleName} [get]
func (h *UserHandler) ByRole(c echo.Context) error {
	users, err := h.service.GetUsersByRole(c.Request().Context(), c.Param("roleName"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get handles GET /users/id/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/id/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.UpdateUserByID(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteUserByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}

// Partners handles GET /partners.
//
// @Summary      List partners with their students
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /partners [get]
func (h *UserHandler) Partners(c echo.Context) error {
	partners, err := h.service.GetPartnersWithStudents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(partners))
}
