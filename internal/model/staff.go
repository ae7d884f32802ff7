package model

// Doctor accounts are provisioned out of band; the application only reads
// them during login and for attribution on new records.
type Doctor struct {
	DoctorID int64  `db:"doctor_id" json:"doctor_id"`
	Username string `db:"username" json:"username"`
	FullName string `db:"full_name" json:"full_name"`
	Contact  string `db:"contact" json:"contact"`
}

type Chemist struct {
	ChemistID int64  `db:"chemist_id" json:"chemist_id"`
	Username  string `db:"username" json:"username"`
	FullName  string `db:"full_name" json:"full_name"`
	Contact   string `db:"contact" json:"contact"`
}
