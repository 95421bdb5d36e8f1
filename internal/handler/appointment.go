package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmcdaid/dental-clinic-api/internal/clinic"
	"github.com/kmcdaid/dental-clinic-api/internal/model"
	"github.com/kmcdaid/dental-clinic-api/internal/schedule"
)

type bookReq struct {
	PatientNo   int64  `json:"patient_no"`
	DentistNo   int64  `json:"dentist_no"`
	TreatmentNo *int64 `json:"treatment_no"`
	Date        string `json:"date"` // YYYY-MM-DD, ignored when auto
	Time        string `json:"time"` // HH:MM, ignored when auto
	Auto        bool   `json:"auto"` // book the next available slot instead
}

type attendedReq struct {
	Attended bool `json:"attended"`
}

// apptResp flattens an appointment for JSON output with the slot rendered
// as date and time strings.
type apptResp struct {
	AppointmentNo int64  `json:"appointment_no"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	TreatmentNo   *int64 `json:"treatment_no"`
	Attended      bool   `json:"attended"`
	PatientNo     int64  `json:"patient_no"`
	DentistNo     int64  `json:"dentist_no"`
	BookingRef    string `json:"booking_ref"`
}

func toApptResp(a *model.Appointment) apptResp {
	return apptResp{
		AppointmentNo: a.AppointmentNo,
		Date:          a.Date.String(),
		Time:          a.Time.String(),
		TreatmentNo:   a.TreatmentNo,
		Attended:      a.Attended,
		PatientNo:     a.PatientNo,
		DentistNo:     a.DentistNo,
		BookingRef:    a.BookingRef,
	}
}

// parseSlot validates the date and time strings from a request.
func parseSlot(date, tod string) (schedule.Date, schedule.TimeOfDay, error) {
	d, err := schedule.ParseDate(date)
	if err != nil {
		return schedule.Date{}, schedule.TimeOfDay{}, err
	}
	t, err := schedule.ParseTimeOfDay(tod)
	if err != nil {
		return schedule.Date{}, schedule.TimeOfDay{}, err
	}
	return d, t, nil
}

// ListAppointments handles GET /v1/appointments and returns the full
// schedule joined with patient and dentist names.
func (h *ClinicHandler) ListAppointments(c echo.Context) error {
	items, err := h.Appointments.ListViews(c.Request().Context())
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetAppointment handles GET /v1/appointments/:id.
func (h *ClinicHandler) GetAppointment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Appointments.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, toApptResp(a))
}

// BookAppointment handles POST /v1/appointments. With "auto": true the next
// available slot for the dentist is booked; otherwise the given date and
// time are validated against the clinic calendar and checked for conflicts.
func (h *ClinicHandler) BookAppointment(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.PatientNo == 0 || req.DentistNo == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "patient_no and dentist_no are required"})
	}

	breq := clinic.BookingRequest{
		PatientNo:   req.PatientNo,
		DentistNo:   req.DentistNo,
		TreatmentNo: req.TreatmentNo,
		Auto:        req.Auto,
	}
	if !req.Auto {
		d, t, err := parseSlot(req.Date, req.Time)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		breq.Date, breq.Time = d, t
	}

	a, err := h.Scheduler.Book(c.Request().Context(), breq)
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusCreated, toApptResp(a))
}

// UpdateAppointment handles PUT /v1/appointments/:id and rewrites the slot
// and references of an existing appointment.
func (h *ClinicHandler) UpdateAppointment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.PatientNo == 0 || req.DentistNo == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "patient_no and dentist_no are required"})
	}
	d, t, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	existing, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		return writeClinicError(c, err)
	}
	existing.Date = d
	existing.Time = t
	existing.TreatmentNo = req.TreatmentNo
	existing.PatientNo = req.PatientNo
	existing.DentistNo = req.DentistNo
	if err := h.Appointments.Update(ctx, existing); err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, toApptResp(existing))
}

// SetAttended handles PATCH /v1/appointments/:id/attended.
func (h *ClinicHandler) SetAttended(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req attendedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Scheduler.SetAttended(c.Request().Context(), id, req.Attended); err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"appointment_no": id, "attended": req.Attended})
}

// DeleteAppointment handles DELETE /v1/appointments/:id. The delete goes
// through the scheduler so a cancellation event is published, just like the
// cascade paths.
func (h *ClinicHandler) DeleteAppointment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Scheduler.CancelAppointment(c.Request().Context(), id); err != nil {
		return writeClinicError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PatientAppointments handles GET /v1/patients/:id/appointments. An unknown
// patient is a 404; a patient with no bookings gets an empty list.
func (h *ClinicHandler) PatientAppointments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	appts, err := h.Scheduler.AppointmentsForPatient(c.Request().Context(), id)
	if err != nil {
		return writeClinicError(c, err)
	}
	items := make([]apptResp, 0, len(appts))
	for _, a := range appts {
		items = append(items, toApptResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// TreatmentAppointments handles GET /v1/treatments/:id/appointments and
// lists every booking for the treatment.
func (h *ClinicHandler) TreatmentAppointments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	appts, err := h.Scheduler.AppointmentsForTreatment(c.Request().Context(), id)
	if err != nil {
		return writeClinicError(c, err)
	}
	items := make([]apptResp, 0, len(appts))
	for _, a := range appts {
		items = append(items, toApptResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// NextSlots handles GET /v1/dentists/next-slots and returns the next
// bookable slot for every dentist, for the booking form's dentist picker.
func (h *ClinicHandler) NextSlots(c echo.Context) error {
	slots, err := h.Scheduler.NextAvailableSlots(c.Request().Context())
	if err != nil {
		return writeClinicError(c, err)
	}
	items := make([]echo.Map, 0, len(slots))
	for _, ds := range slots {
		items = append(items, echo.Map{
			"dentist_no":   ds.Dentist.DentistNo,
			"dentist_name": ds.Dentist.Name,
			"date":         ds.Slot.Date.String(),
			"time":         ds.Slot.Time.String(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DentistAppointments handles GET /v1/dentists/:id/appointments and returns
// the dentist's schedule joined with patient names. An unknown dentist is a
// 404; a dentist with no bookings gets an empty list.
func (h *ClinicHandler) DentistAppointments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Dentists.GetByID(ctx, id); err != nil {
		return writeClinicError(c, err)
	}
	items, err := h.Appointments.ListViewsByDentist(ctx, id)
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// NextSlot handles GET /v1/dentists/:id/next-slot and returns the earliest
// bookable slot for the dentist. The optional exclude_date and exclude_time
// query parameters ignore one existing booking, previewing availability as
// if it were moved or cancelled.
func (h *ClinicHandler) NextSlot(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var exclude *schedule.Slot
	if ed, et := c.QueryParam("exclude_date"), c.QueryParam("exclude_time"); ed != "" || et != "" {
		d, t, err := parseSlot(ed, et)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		exclude = &schedule.Slot{Date: d, Time: t}
	}
	slot, err := h.Scheduler.NextAvailableSlot(c.Request().Context(), id, exclude)
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"dentist_no": id,
		"date":       slot.Date.String(),
		"time":       slot.Time.String(),
	})
}

// SlotBooked handles GET /v1/dentists/:id/slot-booked?date=...&time=... and
// reports whether that exact slot is already taken.
func (h *ClinicHandler) SlotBooked(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, t, err := parseSlot(c.QueryParam("date"), c.QueryParam("time"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	booked, err := h.Scheduler.IsSlotBooked(c.Request().Context(), id, d, t)
	if err != nil {
		return writeClinicError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"dentist_no": id,
		"date":       d.String(),
		"time":       t.String(),
		"booked":     booked,
	})
}
