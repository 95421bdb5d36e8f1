package model

// Treatment represents a row in the `treatments` table. Cost is carried as
// a float of euro; it must be non-negative, which the handler validates on
// create and update.
//
// Fields:
//
//	TreatmentNo – primary key identifier.
//	Name        – short treatment name (e.g. "Root Canal").
//	Description – longer description shown to staff.
//	Cost        – price in euro, non-negative.
type Treatment struct {
	TreatmentNo int64   `json:"treatment_no"` // treatments.treatment_no
	Name        string  `json:"name"`         // treatments.name
	Description string  `json:"description"`  // treatments.description
	Cost        float64 `json:"cost"`         // treatments.cost
}
