package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// ReferenceHandler serves breakfast rates and school centers.
type ReferenceHandler struct {
	service ports.ReferenceService
}

func NewReferenceHandler(service ports.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

type rateRequest struct {
	Rate  string  `json:"rate" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

type centerRequest struct {
	Center string `json:"center" validate:"required"`
}

// ListRates handles GET /rates.
//
// @Summary  List rates
// @Tags     rates
// @Produce  json
// @Success  200  {array}   domain.Rate
// @Failure  500  {object}  errorResponse
// @Router   /rates [get]
func (h *ReferenceHandler) ListRates(c echo.Context) error {
	rates, err := h.service.ListRates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rates)
}

// CreateRate handles POST /rates.
//
// @Summary  Create a rate
// @Tags     rates
// @Accept   json
// @Produce  json
// @Param    body  body      rateRequest  true  "Rate"
// @Success  201   {object}  domain.Rate
// @Failure  400   {object}  errorResponse
// @Failure  500   {object}  errorResponse
// @Router   /rates [post]
func (h *ReferenceHandler) CreateRate(c echo.Context) error {
	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rate, err := h.service.CreateRate(c.Request().Context(), domain.Rate{Rate: req.Rate, Price: req.Price})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rate)
}

// GetRate handles GET /rates/:id.
//
// @Summary  Get a rate
// @Tags     rates
// @Produce  json
// @Param    id   path      string  true  "Rate id"
// @Success  200  {object}  domain.Rate
// @Failure  404  {object}  errorResponse
// @Router   /rates/{id} [get]
func (h *ReferenceHandler) GetRate(c echo.Context) error {
	rate, err := h.service.GetRate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rate)
}

// UpdateRate handles PUT /rates/:id.
//
// @Summary  Update a rate
// @Tags     rates
// @Accept   json
// @Produce  json
// @Param    id    path      string       true  "Rate id"
// @Param    body  body      rateRequest  true  "Rate"
// @Success  200   {object}  domain.Rate
// @Failure  400   {object}  errorResponse
// @Failure  404   {object}  errorResponse
// @Router   /rates/{id} [put]
func (h *ReferenceHandler) UpdateRate(c echo.Context) error {
	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rate, err := h.service.UpdateRate(c.Request().Context(), domain.Rate{ID: c.Param("id"), Rate: req.Rate, Price: req.Price})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rate)
}

// DeleteRate handles DELETE /rates/:id.
//
// @Summary  Delete a rate
// @Tags     rates
// @Produce  json
// @Param    id   path      string  true  "Rate id"
// @Success  200  {object}  messageResponse
// @Failure  404  {object}  errorResponse
// @Router   /rates/{id} [delete]
func (h *ReferenceHandler) DeleteRate(c echo.Context) error {
	if err := h.service.DeleteRate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "rate deleted"})
}

// ListCenters handles GET /centers.
//
// @Summary  List centers
// @Tags     centers
// @Produce  json
// @Success  200  {array}   domain.Center
// @Failure  500  {object}  errorResponse
// @Router   /centers [get]
func (h *ReferenceHandler) ListCenters(c echo.Context) error {
	centers, err := h.service.ListCenters(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, centers)
}

// CreateCenter handles POST /centers.
//
// @Summary  Create a center
// @Tags     centers
// @Accept   json
// @Produce  json
// @Param    body  body      centerRequest  true  "Center"
// @Success  201   {object}  domain.Center
// @Failure  400   {object}  errorResponse
// @Router   /centers [post]
func (h *ReferenceHandler) CreateCenter(c echo.Context) error {
	var req centerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	center, err := h.service.CreateCenter(c.Request().Context(), domain.Center{Center: req.Center})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, center)
}

// GetCenter handles GET /centers/:id.
//
// @Summary  Get a center
// @Tags     centers
// @Produce  json
// @Param    id   path      string  true  "Center id"
// @Success  200  {object}  domain.Center
// @Failure  404  {object}  errorResponse
// @Router   /centers/{id} [get]
func (h *ReferenceHandler) GetCenter(c echo.Context) error {
	center, err := h.service.GetCenter(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, center)
}

// UpdateCenter handles PUT /centers/:id.
//
// @Summary  Update a center
// @Tags     centers
// @Accept   json
// @Produce  json
// @Param    id    path      string         true  "Center id"
// @Param    body  body      centerRequest  true  "Center"
// @Success  200   {object}  domain.Center
// @Failure  400   {object}  errorResponse
// @Failure  404   {object}  errorResponse
// @Router   /centers/{id} [put]
func (h *ReferenceHandler) UpdateCenter(c echo.Context) error {
	var req centerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	center, err := h.service.UpdateCenter(c.Request().Context(), domain.Center{ID: c.Param("id"), Center: req.Center})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, center)
}

// DeleteCenter handles DELETE /centers/:id.
//
// @Summary  Delete a center
// @Tags     centers
// @Produce  json
// @Param    id   path      string  true  "Center id"
// @Success  200  {object}  messageResponse
// @Failure  404  {object}  errorResponse
// @Router   /centers/{id} [delete]
func (h *ReferenceHandler) DeleteCenter(c echo.Context) error {
	if err := h.service.DeleteCenter(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "center deleted"})
}
