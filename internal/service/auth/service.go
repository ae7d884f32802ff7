package auth

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/mediconnect/ehr-api/internal/email"
	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/internal/repository"
	"github.com/mediconnect/ehr-api/pkg/auth"
	apperrors "github.com/mediconnect/ehr-api/pkg/errors"
	"github.com/mediconnect/ehr-api/pkg/logger"
)

var contactPattern = regexp.MustCompile(`^\d{10}$`)

type Service struct {
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	chemists repository.ChemistRepository
	jwtSvc   auth.JWTService
	emailSvc email.Service
	log      *logger.Logger
}

func NewService(
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	chemists repository.ChemistRepository,
	jwtSvc auth.JWTService,
	emailSvc email.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		patients: patients,
		doctors:  doctors,
		chemists: chemists,
		jwtSvc:   jwtSvc,
		emailSvc: emailSvc,
		log:      log,
	}
}

// Login resolves the username (and, for patients, UID) against the table for
// the requested role. Any mismatch answers with a single invalid-credentials
// error; backend failures keep their Service kind so they are not mistaken
// for bad credentials.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if !req.Role.Valid() {
		return nil, apperrors.Validation("unknown role")
	}
	if strings.TrimSpace(req.Username) == "" {
		return nil, apperrors.Validation("username is required")
	}

	var (
		actor *model.Actor
		user  interface{}
	)

	switch req.Role {
	case model.RolePatient:
		if strings.TrimSpace(req.UID) == "" {
			return nil, apperrors.Validation("patient UID is required")
		}
		patient, err := s.patients.GetByUsernameAndUID(ctx, req.Username, req.UID)
		if err != nil {
			return nil, loginError(err)
		}
		actor = &model.Actor{
			Role:     model.RolePatient,
			Username: patient.Username,
			UID:      patient.UID,
		}
		user = patient

	case model.RoleDoctor:
		doctor, err := s.doctors.GetByUsername(ctx, req.Username)
		if err != nil {
			return nil, loginError(err)
		}
		actor = &model.Actor{
			Role:     model.RoleDoctor,
			Username: doctor.Username,
			FullName: doctor.FullName,
			ActorID:  doctor.DoctorID,
		}
		user = doctor

	case model.RoleChemist:
		chemist, err := s.chemists.GetByUsername(ctx, req.Username)
		if err != nil {
			return nil, loginError(err)
		}
		actor = &model.Actor{
			Role:     model.RoleChemist,
			Username: chemist.Username,
			FullName: chemist.FullName,
			ActorID:  chemist.ChemistID,
		}
		user = chemist
	}

	token, err := s.jwtSvc.GenerateToken(actor)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{
		Token: token,
		Role:  actor.Role,
		User:  user,
	}, nil
}

// Signup creates a patient account. The UID is assigned here and returned to
// the caller; it is the credential patients log in with.
func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.Patient, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, apperrors.Validation("username is required")
	}
	if req.Age <= 0 {
		return nil, apperrors.Validation("age is required")
	}
	if !contactPattern.MatchString(req.Contact) {
		return nil, apperrors.Validation("contact must be a 10-digit number")
	}

	_, err := s.patients.GetByUsername(ctx, req.Username)
	if err == nil {
		return nil, apperrors.Conflict("username already exists")
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	patient := &model.Patient{
		UID:      newUID(),
		Username: req.Username,
		Age:      req.Age,
		Contact:  req.Contact,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendSignupNotification(ctx, patient.Username, patient.UID); err != nil {
		s.log.Error(err, "signup notification failed", "username", patient.Username)
	}

	return patient, nil
}

// newUID derives a short, unique patient identifier.
func newUID() string {
	return "P" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// loginError collapses not-found lookups into one invalid-credentials answer
// while letting backend failures through unchanged.
func loginError(err error) error {
	if apperrors.IsNotFound(err) {
		return apperrors.Unauthorized("invalid credentials or role mismatch", err)
	}
	return err
}
