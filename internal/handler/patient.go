package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
)

type patientReq struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Street  string `json:"street"`
	Town    string `json:"town"`
	County  string `json:"county"`
	Eircode string `json:"eircode"`
}

// ListPatients handles GET /v1/patients.
func (h *ClinicHandler) ListPatients(c echo.Context) error {
	items, err := h.Patients.GetAll(c.Request().Context())
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetPatient handles GET /v1/patients/:id.
func (h *ClinicHandler) GetPatient(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Patients.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// CreatePatient handles POST /v1/patients.
func (h *ClinicHandler) CreatePatient(c echo.Context) error {
	var req patientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	p := &model.Patient{
		Email:   req.Email,
		Name:    req.Name,
		Street:  strings.TrimSpace(req.Street),
		Town:    strings.TrimSpace(req.Town),
		County:  strings.TrimSpace(req.County),
		Eircode: strings.ToUpper(strings.TrimSpace(req.Eircode)),
	}
	if err := h.Patients.Create(c.Request().Context(), p); err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdatePatient handles PUT /v1/patients/:id.
func (h *ClinicHandler) UpdatePatient(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req patientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	p := &model.Patient{
		PatientNo: id,
		Email:     req.Email,
		Name:      req.Name,
		Street:    strings.TrimSpace(req.Street),
		Town:      strings.TrimSpace(req.Town),
		County:    strings.TrimSpace(req.County),
		Eircode:   strings.ToUpper(strings.TrimSpace(req.Eircode)),
	}
	if err := h.Patients.Update(c.Request().Context(), p); err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePatient handles DELETE /v1/patients/:id. The patient's appointments
// are removed in the same transaction.
func (h *ClinicHandler) DeletePatient(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Scheduler.DeletePatient(c.Request().Context(), id); err != nil {
		return writeClinicError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
