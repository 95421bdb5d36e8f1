package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
)

// DentistRepo provides CRUD operations for dentists.
type DentistRepo struct {
	db *sql.DB
}

// NewDentistRepo returns a DentistRepo bound to the given database.
func NewDentistRepo(db *sql.DB) *DentistRepo { return &DentistRepo{db: db} }

// GetAll returns every dentist ordered by number; empty clinic yields an
// empty slice.
func (r *DentistRepo) GetAll(ctx context.Context) ([]*model.Dentist, error) {
	const q = `SELECT dentist_no, awarding_body, name, speciality
	           FROM dentists ORDER BY dentist_no`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeErr("dentists.get_all", err)
	}
	defer rows.Close()

	out := make([]*model.Dentist, 0)
	for rows.Next() {
		d := new(model.Dentist)
		if err := rows.Scan(&d.DentistNo, &d.AwardingBody, &d.Name, &d.Speciality); err != nil {
			return nil, storeErr("dentists.get_all", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("dentists.get_all", err)
	}
	return out, nil
}

// GetByID retrieves one dentist, returning ErrDentistNotFound when absent.
func (r *DentistRepo) GetByID(ctx context.Context, dentistNo int64) (*model.Dentist, error) {
	const q = `SELECT dentist_no, awarding_body, name, speciality
	           FROM dentists WHERE dentist_no = ?`
	var d model.Dentist
	err := r.db.QueryRowContext(ctx, q, dentistNo).
		Scan(&d.DentistNo, &d.AwardingBody, &d.Name, &d.Speciality)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDentistNotFound
		}
		return nil, storeErr("dentists.get_by_id", err)
	}
	return &d, nil
}

// Exists reports whether a dentist number is present.
func (r *DentistRepo) Exists(ctx context.Context, dentistNo int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM dentists WHERE dentist_no = ?)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, dentistNo).Scan(&ok); err != nil {
		return false, storeErr("dentists.exists", err)
	}
	return ok, nil
}

// Create inserts a new dentist and populates DentistNo on the record.
func (r *DentistRepo) Create(ctx context.Context, d *model.Dentist) error {
	const q = `INSERT INTO dentists (awarding_body, name, speciality) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, d.AwardingBody, d.Name, d.Speciality)
	if err != nil {
		return storeErr("dentists.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("dentists.create", err)
	}
	d.DentistNo = id
	return nil
}

// Update rewrites a dentist's fields. Returns ErrDentistNotFound when no
// row matched.
func (r *DentistRepo) Update(ctx context.Context, d *model.Dentist) error {
	const q = `UPDATE dentists SET awarding_body = ?, name = ?, speciality = ?
	           WHERE dentist_no = ?`
	res, err := r.db.ExecContext(ctx, q, d.AwardingBody, d.Name, d.Speciality, d.DentistNo)
	if err != nil {
		return storeErr("dentists.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		ok, exErr := r.Exists(ctx, d.DentistNo)
		if exErr != nil {
			return exErr
		}
		if !ok {
			return ErrDentistNotFound
		}
	}
	return nil
}

// DeleteCascade removes the dentist and every appointment referencing them
// in one transaction, returning the removed appointment numbers.
func (r *DentistRepo) DeleteCascade(ctx context.Context, dentistNo int64) ([]int64, error) {
	return cascadeDelete(ctx, r.db, "dentist", "dentists", "dentist_no", dentistNo, ErrDentistNotFound)
}
