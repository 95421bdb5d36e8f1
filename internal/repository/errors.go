// Package repository holds the data access layer for the clinic entities.
// This file defines the error values shared across repositories so that
// higher layers such as handlers can distinguish failure scenarios: a
// missing entity, a booking that collides with an existing slot, a plain
// store failure, and the pathological case where a cascade delete was left
// half applied.
package repository

import (
	"errors"
	"fmt"
)

// ErrPatientNotFound is returned when a patient lookup fails.
var ErrPatientNotFound = errors.New("patient not found")

// ErrDentistNotFound is returned when a dentist lookup fails.
var ErrDentistNotFound = errors.New("dentist not found")

// ErrTreatmentNotFound is returned when a treatment lookup fails.
var ErrTreatmentNotFound = errors.New("treatment not found")

// ErrAppointmentNotFound is returned when an appointment lookup fails.
var ErrAppointmentNotFound = errors.New("appointment not found")

// ErrSlotTaken is returned when a booking targets a (dentist, date, time)
// slot that already has an appointment. Handlers translate it into an HTTP
// 409 response.
var ErrSlotTaken = errors.New("slot already booked")

// StoreError wraps an underlying persistence failure with the operation
// that triggered it. Use errors.As to detect it and errors.Unwrap (or
// errors.Is on the cause) to inspect the driver error.
type StoreError struct {
	Op  string // operation, e.g. "appointments.create"
	Err error  // underlying cause
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr wraps err as a StoreError unless it is already one of the
// sentinel values defined above, which must pass through unchanged so
// errors.Is keeps working at the handler layer.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPatientNotFound) ||
		errors.Is(err, ErrDentistNotFound) ||
		errors.Is(err, ErrTreatmentNotFound) ||
		errors.Is(err, ErrAppointmentNotFound) ||
		errors.Is(err, ErrSlotTaken) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// PartialCascadeError reports a cascade delete that failed after some
// dependents were already removed AND the transaction rollback itself
// failed, leaving the store in a partially deleted state. It is surfaced
// distinctly from StoreError so operators can find and reconcile orphaned
// rows. Deleted lists the appointment numbers that are gone for good.
type PartialCascadeError struct {
	Entity  string  // parent entity type: "dentist", "patient" or "treatment"
	ID      int64   // parent identifier
	Deleted []int64 // appointment numbers removed before the failure
	Err     error   // the failure that interrupted the cascade
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("partial cascade delete of %s %d: %d appointment(s) removed before failure: %v",
		e.Entity, e.ID, len(e.Deleted), e.Err)
}

func (e *PartialCascadeError) Unwrap() error { return e.Err }
