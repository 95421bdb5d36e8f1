package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
)

// PatientRepo provides CRUD operations for patients. Deleting a patient
// cascades to their appointments via cascadeDelete.
type PatientRepo struct {
	db *sql.DB
}

// NewPatientRepo returns a PatientRepo bound to the given database.
func NewPatientRepo(db *sql.DB) *PatientRepo { return &PatientRepo{db: db} }

// GetAll returns every patient ordered by number. The result is never nil:
// an empty clinic yields an empty slice, distinct from a lookup failure.
func (r *PatientRepo) GetAll(ctx context.Context) ([]*model.Patient, error) {
	const q = `SELECT patient_no, email, name, street, town, county, eircode
	           FROM patients ORDER BY patient_no`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeErr("patients.get_all", err)
	}
	defer rows.Close()

	out := make([]*model.Patient, 0)
	for rows.Next() {
		p := new(model.Patient)
		if err := rows.Scan(&p.PatientNo, &p.Email, &p.Name, &p.Street, &p.Town, &p.County, &p.Eircode); err != nil {
			return nil, storeErr("patients.get_all", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("patients.get_all", err)
	}
	return out, nil
}

// GetByID retrieves one patient, returning ErrPatientNotFound when the
// number does not exist.
func (r *PatientRepo) GetByID(ctx context.Context, patientNo int64) (*model.Patient, error) {
	const q = `SELECT patient_no, email, name, street, town, county, eircode
	           FROM patients WHERE patient_no = ?`
	var p model.Patient
	err := r.db.QueryRowContext(ctx, q, patientNo).
		Scan(&p.PatientNo, &p.Email, &p.Name, &p.Street, &p.Town, &p.County, &p.Eircode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, storeErr("patients.get_by_id", err)
	}
	return &p, nil
}

// Exists reports whether a patient number is present.
func (r *PatientRepo) Exists(ctx context.Context, patientNo int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM patients WHERE patient_no = ?)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, patientNo).Scan(&ok); err != nil {
		return false, storeErr("patients.exists", err)
	}
	return ok, nil
}

// Create inserts a new patient and populates PatientNo on the given record.
func (r *PatientRepo) Create(ctx context.Context, p *model.Patient) error {
	const q = `INSERT INTO patients (email, name, street, town, county, eircode)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Email, p.Name, p.Street, p.Town, p.County, p.Eircode)
	if err != nil {
		return storeErr("patients.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("patients.create", err)
	}
	p.PatientNo = id
	return nil
}

// Update rewrites a patient's contact fields. Returns ErrPatientNotFound
// when no row matched.
func (r *PatientRepo) Update(ctx context.Context, p *model.Patient) error {
	const q = `UPDATE patients
	           SET email = ?, name = ?, street = ?, town = ?, county = ?, eircode = ?
	           WHERE patient_no = ?`
	res, err := r.db.ExecContext(ctx, q, p.Email, p.Name, p.Street, p.Town, p.County, p.Eircode, p.PatientNo)
	if err != nil {
		return storeErr("patients.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a missing row from an update that changed nothing.
		ok, exErr := r.Exists(ctx, p.PatientNo)
		if exErr != nil {
			return exErr
		}
		if !ok {
			return ErrPatientNotFound
		}
	}
	return nil
}

// DeleteCascade removes the patient together with every appointment that
// references them, in one transaction. It returns the appointment numbers
// that were removed so the caller can emit cancellation events.
func (r *PatientRepo) DeleteCascade(ctx context.Context, patientNo int64) ([]int64, error) {
	return cascadeDelete(ctx, r.db, "patient", "patients", "patient_no", patientNo, ErrPatientNotFound)
}
