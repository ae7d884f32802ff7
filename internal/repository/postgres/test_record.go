package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/internal/repository"
	apperrors "github.com/mediconnect/ehr-api/pkg/errors"
)

type testRecordRepository struct {
	db *sqlx.DB
}

func NewTestRecordRepository(db *sqlx.DB) repository.TestRecordRepository {
	return &testRecordRepository{db: db}
}

func (r *testRecordRepository) Create(ctx context.Context, t *model.TestRecord) error {
	query := `
		INSERT INTO past_tests (patient_id, doctor_id, test_name, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING test_id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		t.PatientID,
		t.DoctorID,
		t.TestName,
		t.ImageURL,
	)
	if err := row.Scan(&t.TestID, &t.CreatedAt); err != nil {
		return apperrors.Service("failed to create test record", err)
	}
	return nil
}

func (r *testRecordRepository) ListByPatient(ctx context.Context, patientID int64) ([]model.TestRecord, error) {
	query := `SELECT * FROM past_tests WHERE patient_id = $1 ORDER BY created_at DESC`
	tests := []model.TestRecord{}
	if err := r.db.SelectContext(ctx, &tests, query, patientID); err != nil {
		return nil, apperrors.Service("failed to list test records", err)
	}
	return tests, nil
}
