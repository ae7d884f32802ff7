package model

import "time"

type Prescription struct {
	PrescriptionID int64     `db:"prescription_id" json:"prescription_id"`
	PatientID      int64     `db:"patient_id" json:"patient_id"`
	DoctorID       int64     `db:"doctor_id" json:"doctor_id"`
	DoctorName     string    `db:"doctor_name" json:"doctor_name"`
	Medicines      string    `db:"medicines" json:"medicines"`
	Dosage         string    `db:"dosage" json:"dosage"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// TestRecord carries a reference to an image stored in the object store.
// The object is uploaded before the row is inserted, so a stored row never
// references an object that was not successfully written.
type TestRecord struct {
	TestID    int64     `db:"test_id" json:"test_id"`
	PatientID int64     `db:"patient_id" json:"patient_id"`
	DoctorID  int64     `db:"doctor_id" json:"doctor_id"`
	TestName  string    `db:"test_name" json:"test_name"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Allergy struct {
	AllergyID int64     `db:"allergy_id" json:"allergy_id"`
	PatientID int64     `db:"patient_id" json:"patient_id"`
	DoctorID  int64     `db:"doctor_id" json:"doctor_id"`
	Allergen  string    `db:"allergen" json:"allergen"`
	Severity  string    `db:"severity" json:"severity"`
	AddedBy   string    `db:"added_by" json:"added_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type AddPrescriptionRequest struct {
	Medicines string `json:"medicines" binding:"required"`
	Dosage    string `json:"dosage" binding:"required"`
}

type AddAllergyRequest struct {
	Allergen string `json:"allergen" binding:"required"`
	Severity string `json:"severity" binding:"required"`
}
