package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
)

type dentistReq struct {
	AwardingBody string `json:"awarding_body"`
	Name         string `json:"name"`
	Speciality   string `json:"speciality"`
}

// ListDentists handles GET /v1/dentists.
func (h *ClinicHandler) ListDentists(c echo.Context) error {
	items, err := h.Dentists.GetAll(c.Request().Context())
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetDentist handles GET /v1/dentists/:id.
func (h *ClinicHandler) GetDentist(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, err := h.Dentists.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// CreateDentist handles POST /v1/dentists.
func (h *ClinicHandler) CreateDentist(c echo.Context) error {
	var req dentistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	d := &model.Dentist{
		AwardingBody: strings.TrimSpace(req.AwardingBody),
		Name:         req.Name,
		Speciality:   strings.TrimSpace(req.Speciality),
	}
	if err := h.Dentists.Create(c.Request().Context(), d); err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// UpdateDentist handles PUT /v1/dentists/:id.
func (h *ClinicHandler) UpdateDentist(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req dentistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	d := &model.Dentist{
		DentistNo:    id,
		AwardingBody: strings.TrimSpace(req.AwardingBody),
		Name:         req.Name,
		Speciality:   strings.TrimSpace(req.Speciality),
	}
	if err := h.Dentists.Update(c.Request().Context(), d); err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// DeleteDentist handles DELETE /v1/dentists/:id. Every appointment booked
// with the dentist is removed in the same transaction and a cancellation
// event is published per appointment.
func (h *ClinicHandler) DeleteDentist(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Scheduler.DeleteDentist(c.Request().Context(), id); err != nil {
		return writeClinicError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
