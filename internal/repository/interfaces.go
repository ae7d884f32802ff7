package repository

import (
	"context"

	"github.com/mediconnect/ehr-api/internal/model"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	GetByUID(ctx context.Context, uid string) (*model.Patient, error)
	GetByUsername(ctx context.Context, username string) (*model.Patient, error)
	GetByUsernameAndUID(ctx context.Context, username, uid string) (*model.Patient, error)
}

type DoctorRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Doctor, error)
}

type ChemistRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Chemist, error)
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *model.Prescription) error
	ListByPatient(ctx context.Context, patientID int64) ([]model.Prescription, error)
}

type TestRecordRepository interface {
	Create(ctx context.Context, t *model.TestRecord) error
	ListByPatient(ctx context.Context, patientID int64) ([]model.TestRecord, error)
}

type AllergyRepository interface {
	Create(ctx context.Context, a *model.Allergy) error
	ListByPatient(ctx context.Context, patientID int64) ([]model.Allergy, error)
}
