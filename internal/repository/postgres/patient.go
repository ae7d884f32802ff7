package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/internal/repository"
	apperrors "github.com/mediconnect/ehr-api/pkg/errors"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

// Create inserts the patient and reads back the server-generated patient_id
// and uid.
func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (uid, username, age, contact)
		VALUES ($1, $2, $3, $4)
		RETURNING patient_id, uid, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		patient.UID,
		patient.Username,
		patient.Age,
		patient.Contact,
	)
	if err := row.Scan(&patient.PatientID, &patient.UID, &patient.CreatedAt); err != nil {
		return apperrors.Service("failed to create patient", err)
	}
	return nil
}

func (r *patientRepository) GetByUID(ctx context.Context, uid string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE uid = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, uid); err != nil {
		return nil, notFoundOr(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetByUsername(ctx context.Context, username string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE username = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, username); err != nil {
		return nil, notFoundOr(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetByUsernameAndUID(ctx context.Context, username, uid string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE username = $1 AND uid = $2`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, username, uid); err != nil {
		return nil, notFoundOr(err, "patient")
	}
	return &patient, nil
}
