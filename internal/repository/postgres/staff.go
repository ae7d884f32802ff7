package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) GetByUsername(ctx context.Context, username string) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE username = $1`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, username); err != nil {
		return nil, notFoundOr(err, "doctor")
	}
	return &doctor, nil
}

type chemistRepository struct {
	db *sqlx.DB
}

func NewChemistRepository(db *sqlx.DB) repository.ChemistRepository {
	return &chemistRepository{db: db}
}

func (r *chemistRepository) GetByUsername(ctx context.Context, username string) (*model.Chemist, error) {
	query := `SELECT * FROM chemists WHERE username = $1`
	var chemist model.Chemist
	if err := r.db.GetContext(ctx, &chemist, query, username); err != nil {
		return nil, notFoundOr(err, "chemist")
	}
	return &chemist, nil
}
