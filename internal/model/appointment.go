package model

import "github.com/kmcdaid/dental-clinic-api/internal/schedule"

// Appointment represents a row in the `appointments` table. Date and Time
// are calendar values with no timezone (see the schedule package); together
// with DentistNo they identify the 30-minute slot the appointment occupies.
// TreatmentNo is optional because an appointment can be booked before a
// treatment is decided.
//
// Fields:
//
//	AppointmentNo – primary key identifier.
//	Date, Time    – slot the appointment occupies.
//	TreatmentNo   – reference to treatments.treatment_no (nullable).
//	Attended      – whether the patient showed up; defaults to false.
//	PatientNo     – reference to patients.patient_no.
//	DentistNo     – reference to dentists.dentist_no.
//	BookingRef    – opaque reference handed to the desk when booking.
type Appointment struct {
	AppointmentNo int64              `json:"appointment_no"` // appointments.appointment_no
	Date          schedule.Date      `json:"-"`              // appointments.appt_date
	Time          schedule.TimeOfDay `json:"-"`              // appointments.appt_time
	TreatmentNo   *int64             `json:"treatment_no"`   // appointments.treatment_no (nullable)
	Attended      bool               `json:"attended"`       // appointments.attended
	PatientNo     int64              `json:"patient_no"`     // appointments.patient_no
	DentistNo     int64              `json:"dentist_no"`     // appointments.dentist_no
	BookingRef    string             `json:"booking_ref"`    // appointments.booking_ref
}

// Slot returns the (date, time) pair the appointment occupies.
func (a *Appointment) Slot() schedule.Slot {
	return schedule.Slot{Date: a.Date, Time: a.Time}
}

// AppointmentView is an appointment joined with patient and dentist names
// for schedule listings. It mirrors the shape the front desk tables render.
type AppointmentView struct {
	AppointmentNo int64  `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PatientName   string `json:"patient_name"`
	DentistName   string `json:"dentist_name"`
	Attended      bool   `json:"attended"`
}
