package model

import "time"

// Patient is the root entity; every other record hangs off its numeric
// patient_id. The UID is server-assigned at signup and is what patients,
// doctors and chemists use to locate the chart.
type Patient struct {
	PatientID int64     `db:"patient_id" json:"patient_id"`
	UID       string    `db:"uid" json:"uid"`
	Username  string    `db:"username" json:"username"`
	Age       int       `db:"age" json:"age"`
	Contact   string    `db:"contact" json:"contact"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Age      int    `json:"age" binding:"required,gt=0"`
	Contact  string `json:"contact" binding:"required"`
}
