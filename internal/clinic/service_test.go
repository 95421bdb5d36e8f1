package clinic

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
	"github.com/kmcdaid/dental-clinic-api/internal/queue"
	"github.com/kmcdaid/dental-clinic-api/internal/repository"
	"github.com/kmcdaid/dental-clinic-api/internal/schedule"
)

// ---------- In-memory fakes ----------

type fakeAppointments struct {
	appts  []*model.Appointment
	nextNo int64
}

func (f *fakeAppointments) LastSlot(_ context.Context, dentistNo int64, exclude *schedule.Slot) (schedule.Slot, bool, error) {
	var (
		best  schedule.Slot
		found bool
	)
	for _, a := range f.appts {
		if a.DentistNo != dentistNo {
			continue
		}
		s := schedule.Slot{Date: a.Date, Time: a.Time}
		if exclude != nil && s == *exclude {
			continue
		}
		if !found || s.Date.Compare(best.Date) > 0 ||
			(s.Date.Compare(best.Date) == 0 && s.Time.Compare(best.Time) > 0) {
			best, found = s, true
		}
	}
	return best, found, nil
}

func (f *fakeAppointments) SlotTaken(_ context.Context, dentistNo int64, date schedule.Date, tod schedule.TimeOfDay) (bool, error) {
	for _, a := range f.appts {
		if a.DentistNo == dentistNo && a.Date == date && a.Time == tod {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointments) CreateIfFree(ctx context.Context, a *model.Appointment) error {
	taken, _ := f.SlotTaken(ctx, a.DentistNo, a.Date, a.Time)
	if taken {
		return repository.ErrSlotTaken
	}
	f.nextNo++
	a.AppointmentNo = f.nextNo
	f.appts = append(f.appts, a)
	return nil
}

func (f *fakeAppointments) SetAttended(_ context.Context, appointmentNo int64, attended bool) error {
	for _, a := range f.appts {
		if a.AppointmentNo == appointmentNo {
			a.Attended = attended
			return nil
		}
	}
	return repository.ErrAppointmentNotFound
}

func (f *fakeAppointments) ListBy(_ context.Context, col repository.FKColumn, id int64) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0)
	for _, a := range f.appts {
		var match bool
		switch col {
		case repository.ByPatient:
			match = a.PatientNo == id
		case repository.ByDentist:
			match = a.DentistNo == id
		case repository.ByTreatment:
			match = a.TreatmentNo != nil && *a.TreatmentNo == id
		}
		if match {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) Delete(_ context.Context, appointmentNo int64) error {
	for i, a := range f.appts {
		if a.AppointmentNo == appointmentNo {
			f.appts = append(f.appts[:i], f.appts[i+1:]...)
			return nil
		}
	}
	return repository.ErrAppointmentNotFound
}

type fakePatients struct {
	byID    map[int64]*model.Patient
	cascade []int64 // appointment numbers reported by DeleteCascade
}

func (f *fakePatients) GetByID(_ context.Context, id int64) (*model.Patient, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrPatientNotFound
	}
	return p, nil
}

func (f *fakePatients) DeleteCascade(_ context.Context, id int64) ([]int64, error) {
	if _, ok := f.byID[id]; !ok {
		return nil, repository.ErrPatientNotFound
	}
	delete(f.byID, id)
	return f.cascade, nil
}

type fakeDentists struct {
	byID    map[int64]*model.Dentist
	cascade []int64
}

func (f *fakeDentists) GetByID(_ context.Context, id int64) (*model.Dentist, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrDentistNotFound
	}
	return d, nil
}

func (f *fakeDentists) GetAll(_ context.Context) ([]*model.Dentist, error) {
	out := make([]*model.Dentist, 0, len(f.byID))
	for _, d := range f.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DentistNo < out[j].DentistNo })
	return out, nil
}

func (f *fakeDentists) DeleteCascade(_ context.Context, id int64) ([]int64, error) {
	if _, ok := f.byID[id]; !ok {
		return nil, repository.ErrDentistNotFound
	}
	delete(f.byID, id)
	return f.cascade, nil
}

type fakeTreatments struct {
	byID    map[int64]*model.Treatment
	cascade []int64
}

func (f *fakeTreatments) GetByID(_ context.Context, id int64) (*model.Treatment, error) {
	tr, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrTreatmentNotFound
	}
	return tr, nil
}

func (f *fakeTreatments) DeleteCascade(_ context.Context, id int64) ([]int64, error) {
	if _, ok := f.byID[id]; !ok {
		return nil, repository.ErrTreatmentNotFound
	}
	delete(f.byID, id)
	return f.cascade, nil
}

// ---------- Helpers ----------

// newTestService wires a service over empty fakes with one patient, one
// dentist and one treatment seeded. The clock is pinned to Wednesday
// 2024-03-06 at noon UTC.
func newTestService() (*Service, *fakeAppointments, *fakePatients, *fakeDentists, *fakeTreatments) {
	appts := &fakeAppointments{}
	patients := &fakePatients{byID: map[int64]*model.Patient{
		1: {PatientNo: 1, Name: "Niamh Byrne", Email: "niamh@example.ie"},
	}}
	dentists := &fakeDentists{byID: map[int64]*model.Dentist{
		1: {DentistNo: 1, Name: "James Flynn", Speciality: "Orthodontics"},
	}}
	treatments := &fakeTreatments{byID: map[int64]*model.Treatment{
		1: {TreatmentNo: 1, Name: "Scale and Polish", Cost: 60},
	}}
	svc := New(appts, patients, dentists, treatments, schedule.DefaultHours)
	svc.Now = func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) }
	return svc, appts, patients, dentists, treatments
}

func slotAt(t *testing.T, date, tod string) schedule.Slot {
	t.Helper()
	d, err := schedule.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	tt, err := schedule.ParseTimeOfDay(tod)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return schedule.Slot{Date: d, Time: tt}
}

func book(t *testing.T, svc *Service, date, tod string) *model.Appointment {
	t.Helper()
	s := slotAt(t, date, tod)
	a, err := svc.Book(context.Background(), BookingRequest{
		PatientNo: 1, DentistNo: 1, Date: s.Date, Time: s.Time,
	})
	if err != nil {
		t.Fatalf("book %s %s: %v", date, tod, err)
	}
	return a
}

// ---------- Availability ----------

func TestNextAvailableSlot_NoBookings(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	got, err := svc.NextAvailableSlot(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "2024-03-06 09:00" {
		t.Errorf("expected opening slot today, got %s", got)
	}
}

func TestNextAvailableSlot_AfterLastBooking(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	book(t, svc, "2024-03-06", "10:00")
	got, err := svc.NextAvailableSlot(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "2024-03-06 10:30" {
		t.Errorf("expected 10:30 slot, got %s", got)
	}
}

func TestNextAvailableSlot_FridayEveningRollsToMonday(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	book(t, svc, "2024-03-08", "16:30") // Friday, last slot of the day
	got, err := svc.NextAvailableSlot(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "2024-03-11 09:00" {
		t.Errorf("expected Monday opening, got %s", got)
	}
}

func TestNextAvailableSlot_ExcludesGivenBooking(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	book(t, svc, "2024-03-06", "10:00")
	book(t, svc, "2024-03-06", "11:00")

	// Ignoring the 11:00 booking, availability falls back to after 10:00.
	ex := slotAt(t, "2024-03-06", "11:00")
	got, err := svc.NextAvailableSlot(context.Background(), 1, &ex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "2024-03-06 10:30" {
		t.Errorf("expected 10:30 with the 11:00 booking excluded, got %s", got)
	}
}

func TestNextAvailableSlot_UnknownDentist(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	_, err := svc.NextAvailableSlot(context.Background(), 99, nil)
	if !errors.Is(err, repository.ErrDentistNotFound) {
		t.Errorf("expected ErrDentistNotFound, got %v", err)
	}
}

func TestNextAvailableSlots_CoversEveryDentist(t *testing.T) {
	svc, _, _, dentists, _ := newTestService()
	dentists.byID[2] = &model.Dentist{DentistNo: 2, Name: "Aoife Walsh", Speciality: "Endodontics"}
	book(t, svc, "2024-03-06", "10:00") // dentist 1 only

	got, err := svc.NextAvailableSlots(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected a slot per dentist, got %d", len(got))
	}
	if got[0].Dentist.DentistNo != 1 || got[0].Slot.String() != "2024-03-06 10:30" {
		t.Errorf("dentist 1: expected 10:30 after their booking, got %s", got[0].Slot)
	}
	if got[1].Dentist.DentistNo != 2 || got[1].Slot.String() != "2024-03-06 09:00" {
		t.Errorf("dentist 2: expected opening slot, got %s", got[1].Slot)
	}
}

// ---------- Listing by reference ----------

func TestAppointmentsForPatient(t *testing.T) {
	svc, _, patients, _, _ := newTestService()
	patients.byID[2] = &model.Patient{PatientNo: 2, Name: "Sean Kelly", Email: "sean@example.ie"}
	book(t, svc, "2024-03-06", "10:00")
	book(t, svc, "2024-03-07", "09:30")

	got, err := svc.AppointmentsForPatient(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 appointments for patient 1, got %d", len(got))
	}

	// A known patient with no bookings is an empty list, not an error.
	empty, err := svc.AppointmentsForPatient(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty slice for patient with no bookings, got %v", empty)
	}

	// An unknown patient is a not-found, distinguishable from the above.
	if _, err := svc.AppointmentsForPatient(context.Background(), 99); !errors.Is(err, repository.ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestAppointmentsForTreatment(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	treatment := int64(1)
	s := slotAt(t, "2024-03-06", "10:00")
	if _, err := svc.Book(context.Background(), BookingRequest{
		PatientNo: 1, DentistNo: 1, TreatmentNo: &treatment, Date: s.Date, Time: s.Time,
	}); err != nil {
		t.Fatalf("book: %v", err)
	}
	book(t, svc, "2024-03-06", "10:30") // no treatment attached

	got, err := svc.AppointmentsForTreatment(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 appointment for the treatment, got %d", len(got))
	}
	if got[0].TreatmentNo == nil || *got[0].TreatmentNo != 1 {
		t.Errorf("wrong appointment returned: %+v", got[0])
	}

	if _, err := svc.AppointmentsForTreatment(context.Background(), 99); !errors.Is(err, repository.ErrTreatmentNotFound) {
		t.Errorf("expected ErrTreatmentNotFound, got %v", err)
	}
}

// ---------- Conflict checking ----------

func TestIsSlotBooked_ExactMatchOnly(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	book(t, svc, "2024-03-06", "10:00")

	taken, err := svc.IsSlotBooked(context.Background(), 1,
		slotAt(t, "2024-03-06", "10:00").Date, slotAt(t, "2024-03-06", "10:00").Time)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !taken {
		t.Error("expected booked slot to report taken")
	}

	// An adjacent slot is free: matching is exact, not interval overlap.
	free, err := svc.IsSlotBooked(context.Background(), 1,
		slotAt(t, "2024-03-06", "10:30").Date, slotAt(t, "2024-03-06", "10:30").Time)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free {
		t.Error("expected adjacent slot to be free")
	}
}

func TestIsSlotBooked_UnknownDentist(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	s := slotAt(t, "2024-03-06", "10:00")
	_, err := svc.IsSlotBooked(context.Background(), 99, s.Date, s.Time)
	if !errors.Is(err, repository.ErrDentistNotFound) {
		t.Errorf("expected ErrDentistNotFound, got %v", err)
	}
}

// ---------- Booking ----------

func TestBook_AssignsNumberRefAndPublishes(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	var published []queue.AppointmentBookedEvent
	svc.PublishBooked = func(_ context.Context, ev queue.AppointmentBookedEvent) error {
		published = append(published, ev)
		return nil
	}

	treatment := int64(1)
	s := slotAt(t, "2024-03-06", "11:00")
	a, err := svc.Book(context.Background(), BookingRequest{
		PatientNo: 1, DentistNo: 1, TreatmentNo: &treatment, Date: s.Date, Time: s.Time,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.AppointmentNo == 0 {
		t.Error("expected appointment number to be assigned")
	}
	if len(a.BookingRef) != 32 {
		t.Errorf("expected 32-char booking ref, got %q", a.BookingRef)
	}
	if len(published) != 1 {
		t.Fatalf("expected 1 booked event, got %d", len(published))
	}
	ev := published[0]
	if ev.PatientName != "Niamh Byrne" || ev.DentistName != "James Flynn" || ev.TreatmentName != "Scale and Polish" {
		t.Errorf("event names not resolved: %+v", ev)
	}
	if ev.Date != "2024-03-06" || ev.Time != "11:00" {
		t.Errorf("event slot wrong: %s %s", ev.Date, ev.Time)
	}
}

func TestBook_DoubleBookingRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	book(t, svc, "2024-03-06", "10:00")

	s := slotAt(t, "2024-03-06", "10:00")
	_, err := svc.Book(context.Background(), BookingRequest{
		PatientNo: 1, DentistNo: 1, Date: s.Date, Time: s.Time,
	})
	if !errors.Is(err, repository.ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}
}

func TestBook_RejectsInvalidSlots(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	cases := []struct {
		name string
		date string
		tod  string
		want error
	}{
		{"weekend", "2024-03-09", "10:00", ErrSlotOnWeekend},
		{"before opening", "2024-03-06", "08:30", ErrSlotOutsideHours},
		{"at closing", "2024-03-06", "17:00", ErrSlotOutsideHours},
		{"off grid", "2024-03-06", "10:15", ErrSlotOffGrid},
	}
	for _, tc := range cases {
		s := slotAt(t, tc.date, tc.tod)
		_, err := svc.Book(context.Background(), BookingRequest{
			PatientNo: 1, DentistNo: 1, Date: s.Date, Time: s.Time,
		})
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBook_UnknownReferences(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	s := slotAt(t, "2024-03-06", "10:00")

	_, err := svc.Book(context.Background(), BookingRequest{
		PatientNo: 99, DentistNo: 1, Date: s.Date, Time: s.Time,
	})
	if !errors.Is(err, repository.ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}

	missing := int64(99)
	_, err = svc.Book(context.Background(), BookingRequest{
		PatientNo: 1, DentistNo: 1, TreatmentNo: &missing, Date: s.Date, Time: s.Time,
	})
	if !errors.Is(err, repository.ErrTreatmentNotFound) {
		t.Errorf("expected ErrTreatmentNotFound, got %v", err)
	}
}

func TestBook_AutoUsesNextAvailableSlot(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	book(t, svc, "2024-03-06", "10:00")

	a, err := svc.Book(context.Background(), BookingRequest{
		PatientNo: 1, DentistNo: 1, Auto: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Slot().String() != "2024-03-06 10:30" {
		t.Errorf("expected auto slot 10:30, got %s", a.Slot())
	}
}

// ---------- Cancellation ----------

func TestCancelAppointment_PublishesEvent(t *testing.T) {
	svc, appts, _, _, _ := newTestService()
	a := book(t, svc, "2024-03-06", "10:00")

	var cancelled []queue.AppointmentCancelledEvent
	svc.PublishCancelled = func(_ context.Context, ev queue.AppointmentCancelledEvent) error {
		cancelled = append(cancelled, ev)
		return nil
	}

	if err := svc.CancelAppointment(context.Background(), a.AppointmentNo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appts.appts) != 0 {
		t.Error("expected appointment to be removed")
	}
	if len(cancelled) != 1 {
		t.Fatalf("expected 1 cancellation event, got %d", len(cancelled))
	}
	if cancelled[0].AppointmentNo != a.AppointmentNo || cancelled[0].Reason != "cancelled at desk" {
		t.Errorf("wrong event: %+v", cancelled[0])
	}
}

func TestCancelAppointment_UnknownAppointment(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	var cancelled int
	svc.PublishCancelled = func(context.Context, queue.AppointmentCancelledEvent) error {
		cancelled++
		return nil
	}
	if err := svc.CancelAppointment(context.Background(), 99); !errors.Is(err, repository.ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
	if cancelled != 0 {
		t.Errorf("expected no cancellation events on failed delete, got %d", cancelled)
	}
}

// ---------- Cascade deletion ----------

func TestDeleteDentist_PublishesCancellations(t *testing.T) {
	svc, _, _, dentists, _ := newTestService()
	dentists.cascade = []int64{4, 7}

	var cancelled []queue.AppointmentCancelledEvent
	svc.PublishCancelled = func(_ context.Context, ev queue.AppointmentCancelledEvent) error {
		cancelled = append(cancelled, ev)
		return nil
	}

	if err := svc.DeleteDentist(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cancelled) != 2 {
		t.Fatalf("expected 2 cancellation events, got %d", len(cancelled))
	}
	if cancelled[0].AppointmentNo != 4 || cancelled[1].AppointmentNo != 7 {
		t.Errorf("wrong appointment numbers: %+v", cancelled)
	}
	if cancelled[0].Reason != "dentist deleted" {
		t.Errorf("wrong reason: %q", cancelled[0].Reason)
	}
	if _, err := dentists.GetByID(context.Background(), 1); !errors.Is(err, repository.ErrDentistNotFound) {
		t.Error("expected dentist to be gone after cascade")
	}
}

func TestDeletePatient_UnknownPatient(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	err := svc.DeletePatient(context.Background(), 99)
	if !errors.Is(err, repository.ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestDeleteTreatment_NoAppointments(t *testing.T) {
	svc, _, _, _, treatments := newTestService()
	var cancelled int
	svc.PublishCancelled = func(context.Context, queue.AppointmentCancelledEvent) error {
		cancelled++
		return nil
	}
	if err := svc.DeleteTreatment(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled != 0 {
		t.Errorf("expected no cancellation events, got %d", cancelled)
	}
	if len(treatments.byID) != 0 {
		t.Error("expected treatment to be removed")
	}
}

// ---------- Attendance ----------

func TestSetAttended(t *testing.T) {
	svc, appts, _, _, _ := newTestService()
	a := book(t, svc, "2024-03-06", "10:00")

	if err := svc.SetAttended(context.Background(), a.AppointmentNo, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !appts.appts[0].Attended {
		t.Error("expected attended flag to be set")
	}
	if err := svc.SetAttended(context.Background(), 99, true); !errors.Is(err, repository.ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}
