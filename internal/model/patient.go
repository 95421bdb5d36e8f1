package model

// Patient represents a row in the `patients` table. Address fields follow
// the Irish postal format, hence the Eircode column. The json tags are used
// directly by list and detail handlers.
//
// Fields:
//
//	PatientNo – primary key identifier.
//	Email     – contact email address.
//	Name      – full name.
//	Street, Town, County, Eircode – postal address.
type Patient struct {
	PatientNo int64  `json:"patient_no"` // patients.patient_no
	Email     string `json:"email"`      // patients.email
	Name      string `json:"name"`       // patients.name
	Street    string `json:"street"`     // patients.street
	Town      string `json:"town"`       // patients.town
	County    string `json:"county"`     // patients.county
	Eircode   string `json:"eircode"`    // patients.eircode
}
