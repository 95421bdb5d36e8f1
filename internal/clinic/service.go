// Package clinic implements the scheduling core: availability calculation,
// slot conflict checks, booking, and cascade deletion of patients, dentists
// and treatments. The service works against narrow store interfaces so tests
// can substitute in-memory fakes for the SQL repositories.
package clinic

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
	"github.com/kmcdaid/dental-clinic-api/internal/queue"
	"github.com/kmcdaid/dental-clinic-api/internal/repository"
	"github.com/kmcdaid/dental-clinic-api/internal/schedule"
	"github.com/kmcdaid/dental-clinic-api/internal/utils"
)

// Validation errors reported before any store access. Handlers map these to
// 422 responses.
var (
	ErrSlotOnWeekend    = errors.New("requested slot falls on a weekend")
	ErrSlotOutsideHours = errors.New("requested slot is outside clinic hours")
	ErrSlotOffGrid      = errors.New("requested slot is not aligned to the booking grid")
)

// AppointmentStore is the slice of appointment persistence the service needs.
type AppointmentStore interface {
	LastSlot(ctx context.Context, dentistNo int64, exclude *schedule.Slot) (schedule.Slot, bool, error)
	SlotTaken(ctx context.Context, dentistNo int64, date schedule.Date, tod schedule.TimeOfDay) (bool, error)
	CreateIfFree(ctx context.Context, a *model.Appointment) error
	SetAttended(ctx context.Context, appointmentNo int64, attended bool) error
	ListBy(ctx context.Context, col repository.FKColumn, id int64) ([]*model.Appointment, error)
	Delete(ctx context.Context, appointmentNo int64) error
}

// PatientStore resolves patients for booking validation and cascade deletes.
type PatientStore interface {
	GetByID(ctx context.Context, patientNo int64) (*model.Patient, error)
	DeleteCascade(ctx context.Context, patientNo int64) ([]int64, error)
}

// DentistStore resolves dentists for availability and cascade deletes.
type DentistStore interface {
	GetByID(ctx context.Context, dentistNo int64) (*model.Dentist, error)
	GetAll(ctx context.Context) ([]*model.Dentist, error)
	DeleteCascade(ctx context.Context, dentistNo int64) ([]int64, error)
}

// TreatmentStore resolves treatments for booking validation and cascade
// deletes.
type TreatmentStore interface {
	GetByID(ctx context.Context, treatmentNo int64) (*model.Treatment, error)
	DeleteCascade(ctx context.Context, treatmentNo int64) ([]int64, error)
}

// Service coordinates the scheduling operations. Now and the publish hooks
// are injectable; production wiring uses time.Now and the RabbitMQ
// publisher, tests swap in fixed clocks and in-memory recorders.
type Service struct {
	Appointments AppointmentStore
	Patients     PatientStore
	Dentists     DentistStore
	Treatments   TreatmentStore

	Hours schedule.Hours
	Now   func() time.Time

	PublishBooked    func(ctx context.Context, ev queue.AppointmentBookedEvent) error
	PublishCancelled func(ctx context.Context, ev queue.AppointmentCancelledEvent) error
}

// New returns a Service with the given stores and clinic hours. The clock
// defaults to time.Now and the publish hooks to no-ops; callers override
// them as needed.
func New(appts AppointmentStore, patients PatientStore, dentists DentistStore, treatments TreatmentStore, hours schedule.Hours) *Service {
	return &Service{
		Appointments:     appts,
		Patients:         patients,
		Dentists:         dentists,
		Treatments:       treatments,
		Hours:            hours,
		Now:              time.Now,
		PublishBooked:    func(context.Context, queue.AppointmentBookedEvent) error { return nil },
		PublishCancelled: func(context.Context, queue.AppointmentCancelledEvent) error { return nil },
	}
}

func (s *Service) today() schedule.Date {
	return schedule.DateOf(s.Now().UTC())
}

// NextAvailableSlot computes the earliest bookable slot for a dentist: one
// slot length after their latest booking, rolled to the next weekday opening
// when the day is full or the date lands on a weekend. A dentist with no
// bookings gets today at opening time. When exclude is non-nil that booking
// is ignored, letting the desk preview availability as if an appointment
// were moved or cancelled. Returns ErrDentistNotFound for an unknown
// dentist.
func (s *Service) NextAvailableSlot(ctx context.Context, dentistNo int64, exclude *schedule.Slot) (schedule.Slot, error) {
	if _, err := s.Dentists.GetByID(ctx, dentistNo); err != nil {
		return schedule.Slot{}, err
	}
	last, ok, err := s.Appointments.LastSlot(ctx, dentistNo, exclude)
	if err != nil {
		return schedule.Slot{}, err
	}
	var lastPtr *schedule.Slot
	if ok {
		lastPtr = &last
	}
	return schedule.NextSlot(lastPtr, s.today(), s.Hours), nil
}

// DentistNextSlot pairs a dentist with the next slot they can be booked.
type DentistNextSlot struct {
	Dentist *model.Dentist
	Slot    schedule.Slot
}

// NextAvailableSlots computes the next bookable slot for every dentist on
// the books, in one pass. The desk uses this to fill the dentist picker on
// the booking form without a request per dentist.
func (s *Service) NextAvailableSlots(ctx context.Context) ([]DentistNextSlot, error) {
	dentists, err := s.Dentists.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	out := make([]DentistNextSlot, 0, len(dentists))
	for _, d := range dentists {
		last, ok, err := s.Appointments.LastSlot(ctx, d.DentistNo, nil)
		if err != nil {
			return nil, err
		}
		var lastPtr *schedule.Slot
		if ok {
			lastPtr = &last
		}
		out = append(out, DentistNextSlot{Dentist: d, Slot: schedule.NextSlot(lastPtr, today, s.Hours)})
	}
	return out, nil
}

// AppointmentsForPatient returns the patient's appointments ordered by slot.
// An unknown patient is ErrPatientNotFound; a known patient with no bookings
// gets an empty slice.
func (s *Service) AppointmentsForPatient(ctx context.Context, patientNo int64) ([]*model.Appointment, error) {
	if _, err := s.Patients.GetByID(ctx, patientNo); err != nil {
		return nil, err
	}
	return s.Appointments.ListBy(ctx, repository.ByPatient, patientNo)
}

// AppointmentsForTreatment returns every appointment booked for a treatment.
// An unknown treatment is ErrTreatmentNotFound; a known treatment nobody has
// booked gets an empty slice.
func (s *Service) AppointmentsForTreatment(ctx context.Context, treatmentNo int64) ([]*model.Appointment, error) {
	if _, err := s.Treatments.GetByID(ctx, treatmentNo); err != nil {
		return nil, err
	}
	return s.Appointments.ListBy(ctx, repository.ByTreatment, treatmentNo)
}

// IsSlotBooked reports whether the dentist already has an appointment at
// exactly the given date and time. Matching is exact; adjacent or
// overlapping intervals do not count. Returns ErrDentistNotFound for an
// unknown dentist.
func (s *Service) IsSlotBooked(ctx context.Context, dentistNo int64, date schedule.Date, tod schedule.TimeOfDay) (bool, error) {
	if _, err := s.Dentists.GetByID(ctx, dentistNo); err != nil {
		return false, err
	}
	return s.Appointments.SlotTaken(ctx, dentistNo, date, tod)
}

// BookingRequest carries the parameters for Book. When Auto is true the
// slot fields are ignored and the next available slot for the dentist is
// booked instead.
type BookingRequest struct {
	PatientNo   int64
	DentistNo   int64
	TreatmentNo *int64
	Date        schedule.Date
	Time        schedule.TimeOfDay
	Auto        bool
}

// Book validates the request, checks the slot is free, and inserts the
// appointment. The slot must fall on a weekday, inside clinic hours, and on
// the booking grid. The insert re-checks the slot inside its transaction,
// so a taken slot always surfaces as ErrSlotTaken even under concurrent
// bookings. A booked event is published after commit; publish failures are
// logged and do not fail the booking.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*model.Appointment, error) {
	patient, err := s.Patients.GetByID(ctx, req.PatientNo)
	if err != nil {
		return nil, err
	}
	dentist, err := s.Dentists.GetByID(ctx, req.DentistNo)
	if err != nil {
		return nil, err
	}
	var treatmentName string
	if req.TreatmentNo != nil {
		t, err := s.Treatments.GetByID(ctx, *req.TreatmentNo)
		if err != nil {
			return nil, err
		}
		treatmentName = t.Name
	}

	slot := schedule.Slot{Date: req.Date, Time: req.Time}
	if req.Auto {
		last, ok, err := s.Appointments.LastSlot(ctx, req.DentistNo, nil)
		if err != nil {
			return nil, err
		}
		var lastPtr *schedule.Slot
		if ok {
			lastPtr = &last
		}
		slot = schedule.NextSlot(lastPtr, s.today(), s.Hours)
	} else if err := s.validateSlot(slot); err != nil {
		return nil, err
	}

	ref, err := utils.NewBookingRef()
	if err != nil {
		return nil, err
	}
	appt := &model.Appointment{
		Date:        slot.Date,
		Time:        slot.Time,
		TreatmentNo: req.TreatmentNo,
		PatientNo:   req.PatientNo,
		DentistNo:   req.DentistNo,
		BookingRef:  ref,
	}
	if err := s.Appointments.CreateIfFree(ctx, appt); err != nil {
		return nil, err
	}

	if err := s.PublishBooked(ctx, queue.AppointmentBookedEvent{
		AppointmentNo: appt.AppointmentNo,
		BookingRef:    appt.BookingRef,
		PatientNo:     patient.PatientNo,
		PatientName:   patient.Name,
		DentistNo:     dentist.DentistNo,
		DentistName:   dentist.Name,
		TreatmentName: treatmentName,
		Date:          slot.Date.String(),
		Time:          slot.Time.String(),
		BookedAt:      s.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("clinic: publish booked event failed: %v", err)
	}
	return appt, nil
}

// validateSlot enforces the clinic calendar on explicit booking requests.
func (s *Service) validateSlot(slot schedule.Slot) error {
	if slot.Date.IsWeekend() {
		return ErrSlotOnWeekend
	}
	h := slot.Time.Hour
	if h < s.Hours.Opening || h >= s.Hours.Closing {
		return ErrSlotOutsideHours
	}
	if s.Hours.SlotMinutes > 0 && slot.Time.Minute%s.Hours.SlotMinutes != 0 {
		return ErrSlotOffGrid
	}
	return nil
}

// SetAttended marks whether the patient turned up for an appointment.
func (s *Service) SetAttended(ctx context.Context, appointmentNo int64, attended bool) error {
	return s.Appointments.SetAttended(ctx, appointmentNo, attended)
}

// CancelAppointment removes a single appointment and publishes a
// cancellation event, so desk cancellations land in the audit log the same
// way cascade deletions do.
func (s *Service) CancelAppointment(ctx context.Context, appointmentNo int64) error {
	if err := s.Appointments.Delete(ctx, appointmentNo); err != nil {
		return err
	}
	s.publishCancellations(ctx, []int64{appointmentNo}, "cancelled at desk")
	return nil
}

// DeletePatient removes a patient and all their appointments in one
// transaction, then publishes a cancellation event per removed appointment.
func (s *Service) DeletePatient(ctx context.Context, patientNo int64) error {
	deleted, err := s.Patients.DeleteCascade(ctx, patientNo)
	if err != nil {
		return err
	}
	s.publishCancellations(ctx, deleted, "patient deleted")
	return nil
}

// DeleteDentist removes a dentist and all their appointments in one
// transaction, then publishes a cancellation event per removed appointment.
func (s *Service) DeleteDentist(ctx context.Context, dentistNo int64) error {
	deleted, err := s.Dentists.DeleteCascade(ctx, dentistNo)
	if err != nil {
		return err
	}
	s.publishCancellations(ctx, deleted, "dentist deleted")
	return nil
}

// DeleteTreatment removes a treatment and every appointment referencing it
// in one transaction, then publishes a cancellation event per removed
// appointment.
func (s *Service) DeleteTreatment(ctx context.Context, treatmentNo int64) error {
	deleted, err := s.Treatments.DeleteCascade(ctx, treatmentNo)
	if err != nil {
		return err
	}
	s.publishCancellations(ctx, deleted, "treatment deleted")
	return nil
}

func (s *Service) publishCancellations(ctx context.Context, appointmentNos []int64, reason string) {
	now := s.Now().UTC().Format(time.RFC3339)
	for _, n := range appointmentNos {
		if err := s.PublishCancelled(ctx, queue.AppointmentCancelledEvent{
			AppointmentNo: n,
			Reason:        reason,
			CancelledAt:   now,
		}); err != nil {
			log.Printf("clinic: publish cancelled event failed: %v", err)
		}
	}
}
