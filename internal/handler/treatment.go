package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
)

type treatmentReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// ListTreatments handles GET /v1/treatments.
func (h *ClinicHandler) ListTreatments(c echo.Context) error {
	items, err := h.Treatments.GetAll(c.Request().Context())
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetTreatment handles GET /v1/treatments/:id.
func (h *ClinicHandler) GetTreatment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Treatments.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// CreateTreatment handles POST /v1/treatments.
func (h *ClinicHandler) CreateTreatment(c echo.Context) error {
	var req treatmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Cost < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cost must not be negative"})
	}
	t := &model.Treatment{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Cost:        req.Cost,
	}
	if err := h.Treatments.Create(c.Request().Context(), t); err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// UpdateTreatment handles PUT /v1/treatments/:id.
func (h *ClinicHandler) UpdateTreatment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req treatmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Cost < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cost must not be negative"})
	}
	t := &model.Treatment{
		TreatmentNo: id,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Cost:        req.Cost,
	}
	if err := h.Treatments.Update(c.Request().Context(), t); err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTreatment handles DELETE /v1/treatments/:id. Appointments that
// reference the treatment are removed in the same transaction rather than
// left pointing at a missing row.
func (h *ClinicHandler) DeleteTreatment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Scheduler.DeleteTreatment(c.Request().Context(), id); err != nil {
		return writeClinicError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
