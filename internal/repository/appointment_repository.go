package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
	"github.com/kmcdaid/dental-clinic-api/internal/schedule"
)

// FKColumn names an appointment foreign-key column for the dependent-row
// queries used by listings and the cascade coordinator. Only the three
// constants below are valid; the column name is interpolated into SQL so it
// must never come from user input.
type FKColumn string

const (
	ByPatient   FKColumn = "patient_no"
	ByDentist   FKColumn = "dentist_no"
	ByTreatment FKColumn = "treatment_no"
)

// AppointmentRepo provides data access to the appointments table: CRUD,
// the two specialized scheduling reads (last slot per dentist, dependents
// by foreign key) and the conflict-checked booking insert. Dates and times
// are stored as DATE and CHAR(5) "HH:MM" columns and surfaced as the
// schedule package's calendar value types.
type AppointmentRepo struct {
	db *sql.DB
}

// NewAppointmentRepo returns an AppointmentRepo bound to the given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

const apptColumns = `appointment_no, appt_date, appt_time, treatment_no, attended, patient_no, dentist_no, booking_ref`

// scanAppointment reads one appointment row from either *sql.Row or
// *sql.Rows via the common Scan signature.
func scanAppointment(scan func(dest ...any) error) (*model.Appointment, error) {
	var (
		a         model.Appointment
		apptDate  time.Time
		apptTime  string
		treatment sql.NullInt64
	)
	if err := scan(&a.AppointmentNo, &apptDate, &apptTime, &treatment, &a.Attended, &a.PatientNo, &a.DentistNo, &a.BookingRef); err != nil {
		return nil, err
	}
	a.Date = schedule.DateOf(apptDate)
	tod, err := schedule.ParseTimeOfDay(apptTime)
	if err != nil {
		return nil, fmt.Errorf("corrupt appt_time for appointment %d: %w", a.AppointmentNo, err)
	}
	a.Time = tod
	if treatment.Valid {
		n := treatment.Int64
		a.TreatmentNo = &n
	}
	return &a, nil
}

// GetAll returns every appointment ordered by date then time; no bookings
// yields an empty slice.
func (r *AppointmentRepo) GetAll(ctx context.Context) ([]*model.Appointment, error) {
	q := `SELECT ` + apptColumns + ` FROM appointments ORDER BY appt_date, appt_time, appointment_no`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeErr("appointments.get_all", err)
	}
	defer rows.Close()

	out := make([]*model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, storeErr("appointments.get_all", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("appointments.get_all", err)
	}
	return out, nil
}

// GetByID retrieves one appointment, returning ErrAppointmentNotFound when
// absent.
func (r *AppointmentRepo) GetByID(ctx context.Context, appointmentNo int64) (*model.Appointment, error) {
	q := `SELECT ` + apptColumns + ` FROM appointments WHERE appointment_no = ?`
	a, err := scanAppointment(r.db.QueryRowContext(ctx, q, appointmentNo).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, storeErr("appointments.get_by_id", err)
	}
	return a, nil
}

// ListBy returns all appointments whose given foreign-key column matches
// id. Used for per-dentist schedules and by callers inspecting dependents
// before a cascade. Empty result is an empty slice.
func (r *AppointmentRepo) ListBy(ctx context.Context, col FKColumn, id int64) ([]*model.Appointment, error) {
	q := fmt.Sprintf(`SELECT %s FROM appointments WHERE %s = ? ORDER BY appt_date, appt_time`, apptColumns, col)
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, storeErr("appointments.list_by", err)
	}
	defer rows.Close()

	out := make([]*model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, storeErr("appointments.list_by", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("appointments.list_by", err)
	}
	return out, nil
}

// LastSlot returns the latest booked (date, time) pair for a dentist,
// ordered by date then time descending. The second return value is false
// when the dentist has no bookings at all, which is a normal outcome and
// not an error. When exclude is non-nil that exact slot is ignored, used
// when recomputing availability after removing a tentative booking.
func (r *AppointmentRepo) LastSlot(ctx context.Context, dentistNo int64, exclude *schedule.Slot) (schedule.Slot, bool, error) {
	q := `SELECT appt_date, appt_time FROM appointments WHERE dentist_no = ?`
	args := []any{dentistNo}
	if exclude != nil {
		q += ` AND NOT (appt_date = ? AND appt_time = ?)`
		args = append(args, exclude.Date.String(), exclude.Time.String())
	}
	q += ` ORDER BY appt_date DESC, appt_time DESC LIMIT 1`

	var (
		apptDate time.Time
		apptTime string
	)
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&apptDate, &apptTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.Slot{}, false, nil
		}
		return schedule.Slot{}, false, storeErr("appointments.last_slot", err)
	}
	tod, err := schedule.ParseTimeOfDay(apptTime)
	if err != nil {
		return schedule.Slot{}, false, storeErr("appointments.last_slot", err)
	}
	return schedule.Slot{Date: schedule.DateOf(apptDate), Time: tod}, true, nil
}

// SlotTaken reports whether an appointment already exists for the exact
// (dentist, date, time) triple. Matching is exact on the 30-minute grid,
// not interval overlap.
func (r *AppointmentRepo) SlotTaken(ctx context.Context, dentistNo int64, date schedule.Date, tod schedule.TimeOfDay) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM appointments
	             WHERE dentist_no = ? AND appt_date = ? AND appt_time = ?)`
	var taken bool
	if err := r.db.QueryRowContext(ctx, q, dentistNo, date.String(), tod.String()).Scan(&taken); err != nil {
		return false, storeErr("appointments.slot_taken", err)
	}
	return taken, nil
}

// CreateIfFree inserts the appointment only when its slot is still free,
// re-checking inside the insert transaction so two sequential bookings of
// the same slot cannot both succeed. On success AppointmentNo is populated
// on the record; when the slot is occupied ErrSlotTaken is returned and
// nothing is written.
func (r *AppointmentRepo) CreateIfFree(ctx context.Context, a *model.Appointment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("appointments.create", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const check = `SELECT EXISTS(
	                 SELECT 1 FROM appointments
	                 WHERE dentist_no = ? AND appt_date = ? AND appt_time = ? FOR UPDATE)`
	var taken bool
	if err := tx.QueryRowContext(ctx, check, a.DentistNo, a.Date.String(), a.Time.String()).Scan(&taken); err != nil {
		return storeErr("appointments.create", err)
	}
	if taken {
		return ErrSlotTaken
	}

	const ins = `INSERT INTO appointments
	             (appt_date, appt_time, treatment_no, attended, patient_no, dentist_no, booking_ref)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		a.Date.String(), a.Time.String(), a.TreatmentNo, a.Attended, a.PatientNo, a.DentistNo, a.BookingRef)
	if err != nil {
		return storeErr("appointments.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("appointments.create", err)
	}
	if err := tx.Commit(); err != nil {
		return storeErr("appointments.create", err)
	}
	committed = true
	a.AppointmentNo = id
	return nil
}

// Update rewrites an appointment's slot and references. Returns
// ErrAppointmentNotFound when no row matched.
func (r *AppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	const q = `UPDATE appointments
	           SET appt_date = ?, appt_time = ?, treatment_no = ?, attended = ?, patient_no = ?, dentist_no = ?
	           WHERE appointment_no = ?`
	res, err := r.db.ExecContext(ctx, q,
		a.Date.String(), a.Time.String(), a.TreatmentNo, a.Attended, a.PatientNo, a.DentistNo, a.AppointmentNo)
	if err != nil {
		return storeErr("appointments.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, a.AppointmentNo); err != nil {
			return err
		}
	}
	return nil
}

// SetAttended flips the attended flag on an appointment.
func (r *AppointmentRepo) SetAttended(ctx context.Context, appointmentNo int64, attended bool) error {
	const q = `UPDATE appointments SET attended = ? WHERE appointment_no = ?`
	res, err := r.db.ExecContext(ctx, q, attended, appointmentNo)
	if err != nil {
		return storeErr("appointments.set_attended", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, appointmentNo); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes one appointment. Returns ErrAppointmentNotFound when the
// number does not exist.
func (r *AppointmentRepo) Delete(ctx context.Context, appointmentNo int64) error {
	const q = `DELETE FROM appointments WHERE appointment_no = ?`
	res, err := r.db.ExecContext(ctx, q, appointmentNo)
	if err != nil {
		return storeErr("appointments.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ListViews returns all appointments joined with patient and dentist names
// for the front-desk schedule table, ordered by date then time.
func (r *AppointmentRepo) ListViews(ctx context.Context) ([]*model.AppointmentView, error) {
	const q = `SELECT a.appointment_no, a.appt_date, a.appt_time, a.attended,
	                  COALESCE(p.name, ''), COALESCE(d.name, '')
	           FROM appointments a
	           LEFT JOIN patients p ON p.patient_no = a.patient_no
	           LEFT JOIN dentists d ON d.dentist_no = a.dentist_no
	           ORDER BY a.appt_date, a.appt_time, a.appointment_no`
	return r.queryViews(ctx, q)
}

// ListViewsByDentist is ListViews filtered to one dentist.
func (r *AppointmentRepo) ListViewsByDentist(ctx context.Context, dentistNo int64) ([]*model.AppointmentView, error) {
	const q = `SELECT a.appointment_no, a.appt_date, a.appt_time, a.attended,
	                  COALESCE(p.name, ''), COALESCE(d.name, '')
	           FROM appointments a
	           LEFT JOIN patients p ON p.patient_no = a.patient_no
	           LEFT JOIN dentists d ON d.dentist_no = a.dentist_no
	           WHERE a.dentist_no = ?
	           ORDER BY a.appt_date, a.appt_time, a.appointment_no`
	return r.queryViews(ctx, q, dentistNo)
}

func (r *AppointmentRepo) queryViews(ctx context.Context, q string, args ...any) ([]*model.AppointmentView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("appointments.list_views", err)
	}
	defer rows.Close()

	out := make([]*model.AppointmentView, 0)
	for rows.Next() {
		var (
			v        model.AppointmentView
			apptDate time.Time
		)
		if err := rows.Scan(&v.AppointmentNo, &apptDate, &v.Time, &v.Attended, &v.PatientName, &v.DentistName); err != nil {
			return nil, storeErr("appointments.list_views", err)
		}
		v.Date = schedule.DateOf(apptDate).String()
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("appointments.list_views", err)
	}
	return out, nil
}
