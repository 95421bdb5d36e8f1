package model

// Dentist represents a row in the `dentists` table.
//
// Fields:
//
//	DentistNo    – primary key identifier.
//	AwardingBody – body that awarded the dentist's qualification.
//	Name         – full name.
//	Speciality   – area of practice (e.g. Orthodontics).
type Dentist struct {
	DentistNo    int64  `json:"dentist_no"`    // dentists.dentist_no
	AwardingBody string `json:"awarding_body"` // dentists.awarding_body
	Name         string `json:"name"`          // dentists.name
	Speciality   string `json:"speciality"`    // dentists.speciality
}
