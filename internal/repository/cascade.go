package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// cascadeDelete removes every appointment referencing the given parent row
// and then the parent itself, all inside a single transaction so the store
// never keeps orphaned appointments after a successful call. Dependents are
// deleted one by one rather than with a bulk statement so the set of removed
// appointment numbers is known exactly; the slice is returned to let callers
// publish cancellation events after commit.
//
// Any failure rolls the transaction back and surfaces as a StoreError. If
// the rollback itself fails after dependents were already deleted, the
// partially applied state is reported as a PartialCascadeError instead.
// When the parent row does not exist, notFound is returned and nothing is
// deleted.
func cascadeDelete(ctx context.Context, db *sql.DB, entity, parentTable, keyCol string, id int64, notFound error) ([]int64, error) {
	op := parentTable + ".cascade_delete"

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr(op, err)
	}

	var deleted []int64
	fail := func(cause error) error {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone && len(deleted) > 0 {
			return &PartialCascadeError{Entity: entity, ID: id, Deleted: deleted, Err: cause}
		}
		return storeErr(op, cause)
	}

	// Find dependents by foreign key column.
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf(`SELECT appointment_no FROM appointments WHERE %s = ?`, keyCol), id)
	if err != nil {
		return nil, fail(err)
	}
	var dependents []int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, fail(err)
		}
		dependents = append(dependents, n)
	}
	if err := rows.Close(); err != nil {
		return nil, fail(err)
	}

	// Delete each dependent appointment individually.
	for _, n := range dependents {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM appointments WHERE appointment_no = ?`, n); err != nil {
			return nil, fail(err)
		}
		deleted = append(deleted, n)
	}

	// Delete the parent row itself.
	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, parentTable, keyCol), id)
	if err != nil {
		return nil, fail(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return nil, notFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fail(err)
	}
	return deleted, nil
}
