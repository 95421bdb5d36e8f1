package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kmcdaid/dental-clinic-api/internal/model"
)

// TreatmentRepo provides CRUD operations for treatments.
type TreatmentRepo struct {
	db *sql.DB
}

// NewTreatmentRepo returns a TreatmentRepo bound to the given database.
func NewTreatmentRepo(db *sql.DB) *TreatmentRepo { return &TreatmentRepo{db: db} }

// GetAll returns every treatment ordered by number; empty catalogue yields
// an empty slice.
func (r *TreatmentRepo) GetAll(ctx context.Context) ([]*model.Treatment, error) {
	const q = `SELECT treatment_no, name, description, cost
	           FROM treatments ORDER BY treatment_no`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeErr("treatments.get_all", err)
	}
	defer rows.Close()

	out := make([]*model.Treatment, 0)
	for rows.Next() {
		t := new(model.Treatment)
		var desc sql.NullString
		if err := rows.Scan(&t.TreatmentNo, &t.Name, &desc, &t.Cost); err != nil {
			return nil, storeErr("treatments.get_all", err)
		}
		t.Description = desc.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("treatments.get_all", err)
	}
	return out, nil
}

// GetByID retrieves one treatment, returning ErrTreatmentNotFound when
// absent.
func (r *TreatmentRepo) GetByID(ctx context.Context, treatmentNo int64) (*model.Treatment, error) {
	const q = `SELECT treatment_no, name, description, cost
	           FROM treatments WHERE treatment_no = ?`
	var t model.Treatment
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, q, treatmentNo).
		Scan(&t.TreatmentNo, &t.Name, &desc, &t.Cost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTreatmentNotFound
		}
		return nil, storeErr("treatments.get_by_id", err)
	}
	t.Description = desc.String
	return &t, nil
}

// Exists reports whether a treatment number is present.
func (r *TreatmentRepo) Exists(ctx context.Context, treatmentNo int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM treatments WHERE treatment_no = ?)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, treatmentNo).Scan(&ok); err != nil {
		return false, storeErr("treatments.exists", err)
	}
	return ok, nil
}

// Create inserts a new treatment and populates TreatmentNo on the record.
func (r *TreatmentRepo) Create(ctx context.Context, t *model.Treatment) error {
	const q = `INSERT INTO treatments (name, description, cost) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Description, t.Cost)
	if err != nil {
		return storeErr("treatments.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("treatments.create", err)
	}
	t.TreatmentNo = id
	return nil
}

// Update rewrites a treatment's fields. Returns ErrTreatmentNotFound when
// no row matched.
func (r *TreatmentRepo) Update(ctx context.Context, t *model.Treatment) error {
	const q = `UPDATE treatments SET name = ?, description = ?, cost = ?
	           WHERE treatment_no = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Description, t.Cost, t.TreatmentNo)
	if err != nil {
		return storeErr("treatments.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		ok, exErr := r.Exists(ctx, t.TreatmentNo)
		if exErr != nil {
			return exErr
		}
		if !ok {
			return ErrTreatmentNotFound
		}
	}
	return nil
}

// DeleteCascade removes the treatment and every appointment referencing it
// in one transaction, returning the removed appointment numbers.
func (r *TreatmentRepo) DeleteCascade(ctx context.Context, treatmentNo int64) ([]int64, error) {
	return cascadeDelete(ctx, r.db, "treatment", "treatments", "treatment_no", treatmentNo, ErrTreatmentNotFound)
}
