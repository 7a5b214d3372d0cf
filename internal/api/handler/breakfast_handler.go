package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/comedor/admin-api/internal/core/ports"
)

// BreakfastHandler manages breakfast attendance records.
type BreakfastHandler struct {
	service ports.BreakfastService
}

func NewBreakfastHandler(service ports.BreakfastService) *BreakfastHandler {
	return &BreakfastHandler{service: service}
}

// Create handles POST /breakfasts.
//
// @Summary      Record a breakfast attendance
// @Tags         breakfasts
// @Accept       json
// @Produce      json
// @Param        body  body      createBreakfastRequest  true  "Attendance"
// @Success      201   {object}  breakfastResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /breakfasts [post]
func (h *BreakfastHandler) Create(c echo.Context) error {
	var req createBreakfastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	b, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBreakfastResponse(b))
}

// List handles GET /breakfasts.
//
// @Summary      List breakfast attendances
// @Tags         breakfasts
// @Produce      json
// @Success      200  {array}   breakfastResponse
// @Failure      500  {object}  errorResponse
// @Router       /breakfasts [get]
func (h *BreakfastHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBreakfastResponses(items))
}

// ByStudent handles GET /breakfasts/student/:studentId.
//
// @Summary      List a student's attendances in a date range
// @Tags         breakfasts
// @Produce      json
// @Param        studentId   path      string  true  "Student id"
// @Param        start_date  query     string  true  "First day, inclusive (YYYY-MM-DD)"
// @Param        end_date    query     string  true  "Last day, inclusive (YYYY-MM-DD)"
// @Success      200         {array}   breakfastResponse
// @Failure      400         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /breakfasts/student/{studentId} [get]
func (h *BreakfastHandler) ByStudent(c echo.Context) error {
	from, err := parseDate("start_date", c.QueryParam("start_date"))
	if err != nil {
		return err
	}
	to, err := parseDate("end_date", c.QueryParam("end_date"))
	if err != nil {
		return err
	}

	items, err := h.service.ListByStudent(c.Request().Context(), c.Param("studentId"), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBreakfastResponses(items))
}

// Get handles GET /breakfasts/:id.
//
// @Summary      Get a breakfast attendance
// @Tags         breakfasts
// @Produce      json
// @Param        id   path      string  true  "Attendance id"
// @Success      200  {object}  breakfastResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /breakfasts/{id} [get]
func (h *BreakfastHandler) Get(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBreakfastResponse(b))
}

// Update handles PUT /breakfasts/:id.
//
// @Summary      Update a breakfast attendance
// @Tags         breakfasts
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Attendance id"
// @Param        body  body      updateBreakfastRequest  true  "Fields to change"
// @Success      200   {object}  breakfastResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /breakfasts/{id} [put]
func (h *BreakfastHandler) Update(c echo.Context) error {
	var req updateBreakfastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	upd, err := req.toUpdate()
	if err != nil {
		return err
	}

	b, err := h.service.Update(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBreakfastResponse(b))
}

// Delete handles DELETE /breakfasts/:id.
//
// @Summary      Delete a breakfast attendance
// @Tags         breakfasts
// @Produce      json
// @Param        id   path      string  true  "Attendance id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /breakfasts/{id} [delete]
func (h *BreakfastHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "breakfast attendance deleted"})
}
