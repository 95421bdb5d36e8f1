package handler // handler defines http handlers for the clinic API

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kmcdaid/dental-clinic-api/internal/clinic"
	"github.com/kmcdaid/dental-clinic-api/internal/repository"
)

// ClinicHandler bundles the repositories and the scheduling service used by
// the clinic endpoints.
type ClinicHandler struct {
	Patients     *repository.PatientRepo
	Dentists     *repository.DentistRepo
	Treatments   *repository.TreatmentRepo
	Appointments *repository.AppointmentRepo
	Scheduler    *clinic.Service
}

// NewClinicHandler constructs a ClinicHandler and panics if any dependency
// is nil; wiring bugs should fail at startup, not on the first request.
func NewClinicHandler(p *repository.PatientRepo, d *repository.DentistRepo, t *repository.TreatmentRepo, a *repository.AppointmentRepo, s *clinic.Service) *ClinicHandler {
	if p == nil || d == nil || t == nil || a == nil || s == nil {
		panic("nil dependency passed to NewClinicHandler")
	}
	return &ClinicHandler{Patients: p, Dentists: d, Treatments: t, Appointments: a, Scheduler: s}
}

// pathID parses the named numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// getUserID extracts the user_id set by the JWT middleware and converts it
// to uint64. JWT numeric claims decode as float64, so several shapes are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// writeClinicError maps domain errors to HTTP responses: missing entities to
// 404, occupied slots to 409, calendar violations to 422. A partial cascade
// gets its own 500 body naming what was already removed so operators can
// reconcile; everything else is a generic store failure.
func writeClinicError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrPatientNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	case errors.Is(err, repository.ErrDentistNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dentist not found"})
	case errors.Is(err, repository.ErrTreatmentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "treatment not found"})
	case errors.Is(err, repository.ErrAppointmentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
	case errors.Is(err, repository.ErrSlotTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot already booked"})
	case errors.Is(err, clinic.ErrSlotOnWeekend),
		errors.Is(err, clinic.ErrSlotOutsideHours),
		errors.Is(err, clinic.ErrSlotOffGrid):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	var partial *repository.PartialCascadeError
	if errors.As(err, &partial) {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":                "cascade delete partially applied",
			"entity":               partial.Entity,
			"id":                   partial.ID,
			"deleted_appointments": partial.Deleted,
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
