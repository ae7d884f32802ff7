package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/internal/repository"
	apperrors "github.com/mediconnect/ehr-api/pkg/errors"
)

type allergyRepository struct {
	db *sqlx.DB
}

func NewAllergyRepository(db *sqlx.DB) repository.AllergyRepository {
	return &allergyRepository{db: db}
}

func (r *allergyRepository) Create(ctx context.Context, a *model.Allergy) error {
	query := `
		INSERT INTO allergies (patient_id, doctor_id, allergen, severity, added_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING allergy_id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		a.PatientID,
		a.DoctorID,
		a.Allergen,
		a.Severity,
		a.AddedBy,
	)
	if err := row.Scan(&a.AllergyID, &a.CreatedAt); err != nil {
		return apperrors.Service("failed to create allergy", err)
	}
	return nil
}

func (r *allergyRepository) ListByPatient(ctx context.Context, patientID int64) ([]model.Allergy, error) {
	query := `SELECT * FROM allergies WHERE patient_id = $1 ORDER BY created_at DESC`
	allergies := []model.Allergy{}
	if err := r.db.SelectContext(ctx, &allergies, query, patientID); err != nil {
		return nil, apperrors.Service("failed to list allergies", err)
	}
	return allergies, nil
}
