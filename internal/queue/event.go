// Package queue defines message payloads exchanged over the message broker.
package queue

// AppointmentBookedEvent is published when an appointment is successfully
// booked. It carries enough information for downstream consumers to log,
// notify, or trigger reminders without querying the primary database.
type AppointmentBookedEvent struct {
	AppointmentNo int64  `json:"appointment_id"`
	BookingRef    string `json:"booking_ref"`
	PatientNo     int64  `json:"patient_id"`
	PatientName   string `json:"patient_name"`
	DentistNo     int64  `json:"dentist_id"`
	DentistName   string `json:"dentist_name"`
	TreatmentName string `json:"treatment_name,omitempty"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"` // HH:MM
	BookedAt      string `json:"booked_at"`
}

// AppointmentCancelledEvent is published for each appointment removed by a
// cascade delete, so downstream consumers can notify affected patients.
type AppointmentCancelledEvent struct {
	AppointmentNo int64  `json:"appointment_id"`
	Reason        string `json:"reason"` // e.g. "dentist deleted"
	CancelledAt   string `json:"cancelled_at"`
}
