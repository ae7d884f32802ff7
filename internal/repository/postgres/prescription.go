package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/internal/repository"
	apperrors "github.com/mediconnect/ehr-api/pkg/errors"
)

type prescriptionRepository struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (patient_id, doctor_id, doctor_name, medicines, dosage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING prescription_id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		p.PatientID,
		p.DoctorID,
		p.DoctorName,
		p.Medicines,
		p.Dosage,
	)
	if err := row.Scan(&p.PrescriptionID, &p.CreatedAt); err != nil {
		return apperrors.Service("failed to create prescription", err)
	}
	return nil
}

func (r *prescriptionRepository) ListByPatient(ctx context.Context, patientID int64) ([]model.Prescription, error) {
	query := `SELECT * FROM prescriptions WHERE patient_id = $1 ORDER BY created_at DESC`
	prescriptions := []model.Prescription{}
	if err := r.db.SelectContext(ctx, &prescriptions, query, patientID); err != nil {
		return nil, apperrors.Service("failed to list prescriptions", err)
	}
	return prescriptions, nil
}
