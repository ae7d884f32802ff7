package record

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/internal/repository"
	"github.com/mediconnect/ehr-api/pkg/cache"
	apperrors "github.com/mediconnect/ehr-api/pkg/errors"
	"github.com/mediconnect/ehr-api/pkg/logger"
	"github.com/mediconnect/ehr-api/pkg/metrics"
	"github.com/mediconnect/ehr-api/pkg/storage"
)

// Image is an uploaded file as received from the multipart form.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type Service struct {
	patients      repository.PatientRepository
	prescriptions repository.PrescriptionRepository
	tests         repository.TestRecordRepository
	allergies     repository.AllergyRepository
	store         storage.ObjectStore
	cache         cache.Cache
	cacheTTL      time.Duration
	metrics       *metrics.Metrics
	log           *logger.Logger
	now           func() time.Time
}

type Option func(*Service)

// WithCache enables the read-through bundle cache.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	patients repository.PatientRepository,
	prescriptions repository.PrescriptionRepository,
	tests repository.TestRecordRepository,
	allergies repository.AllergyRepository,
	store storage.ObjectStore,
	log *logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		patients:      patients,
		prescriptions: prescriptions,
		tests:         tests,
		allergies:     allergies,
		store:         store,
		log:           log,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadPatientRecords aggregates everything recorded for the patient with the
// given UID: the profile plus prescriptions, test records and allergies, each
// sorted newest first, with derived monthly insights. Zero matching patients
// yields a NotFound error; a failing read yields a Service error. No
// transaction spans the three reads.
func (s *Service) LoadPatientRecords(ctx context.Context, uid string) (*model.RecordBundle, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, apperrors.Validation("patient UID is required")
	}

	start := s.now()

	if bundle, ok := s.cachedBundle(ctx, uid); ok {
		s.countLoad("ok")
		return bundle, nil
	}

	patient, err := s.patients.GetByUID(ctx, uid)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.countLoad("not_found")
		} else {
			s.countLoad("error")
		}
		return nil, err
	}

	bundle, err := s.loadChildren(ctx, patient)
	if err != nil {
		s.countLoad("error")
		return nil, err
	}

	s.storeBundle(ctx, uid, bundle)
	s.countLoad("ok")
	if s.metrics != nil {
		s.metrics.RecordLoadLatency.Observe(s.now().Sub(start).Seconds())
	}
	return bundle, nil
}

// LoadPatientRecordsByLogin is the patient-login path: the identifier pair
// must resolve to exactly one patient.
func (s *Service) LoadPatientRecordsByLogin(ctx context.Context, username, uid string) (*model.RecordBundle, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(uid) == "" {
		return nil, apperrors.Validation("username and UID are required")
	}
	if _, err := s.patients.GetByUsernameAndUID(ctx, username, uid); err != nil {
		return nil, err
	}
	return s.LoadPatientRecords(ctx, uid)
}

func (s *Service) loadChildren(ctx context.Context, patient *model.Patient) (*model.RecordBundle, error) {
	prescriptions, err := s.prescriptions.ListByPatient(ctx, patient.PatientID)
	if err != nil {
		return nil, err
	}

	tests, err := s.tests.ListByPatient(ctx, patient.PatientID)
	if err != nil {
		return nil, err
	}

	allergies, err := s.allergies.ListByPatient(ctx, patient.PatientID)
	if err != nil {
		return nil, err
	}

	return &model.RecordBundle{
		Patient:       patient,
		Prescriptions: prescriptions,
		Tests:         tests,
		Allergies:     allergies,
		Insights:      buildInsights(prescriptions, tests, allergies),
	}, nil
}

// AddPrescription validates, inserts with the patient foreign key and doctor
// attribution, then reloads the bundle so the new row is visible in order.
func (s *Service) AddPrescription(ctx context.Context, actor *model.Actor, patientUID string, req *model.AddPrescriptionRequest) (*model.RecordBundle, error) {
	if strings.TrimSpace(req.Medicines) == "" || strings.TrimSpace(req.Dosage) == "" {
		return nil, apperrors.Validation("medicines and dosage are required")
	}

	patient, err := s.patients.GetByUID(ctx, patientUID)
	if err != nil {
		return nil, err
	}

	prescription := &model.Prescription{
		PatientID:  patient.PatientID,
		DoctorID:   actor.ActorID,
		DoctorName: actor.FullName,
		Medicines:  req.Medicines,
		Dosage:     req.Dosage,
	}
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, err
	}

	return s.refresh(ctx, patient.UID)
}

// AddAllergy is the second of the two-field inserts.
func (s *Service) AddAllergy(ctx context.Context, actor *model.Actor, patientUID string, req *model.AddAllergyRequest) (*model.RecordBundle, error) {
	if strings.TrimSpace(req.Allergen) == "" || strings.TrimSpace(req.Severity) == "" {
		return nil, apperrors.Validation("allergen and severity are required")
	}

	patient, err := s.patients.GetByUID(ctx, patientUID)
	if err != nil {
		return nil, err
	}

	allergy := &model.Allergy{
		PatientID: patient.PatientID,
		DoctorID:  actor.ActorID,
		Allergen:  req.Allergen,
		Severity:  req.Severity,
		AddedBy:   actor.FullName,
	}
	if err := s.allergies.Create(ctx, allergy); err != nil {
		return nil, err
	}

	return s.refresh(ctx, patient.UID)
}

// AddTestRecord runs the upload-and-link workflow: upload the image under a
// key derived from the patient's username and the current time, resolve its
// public URL, then insert the row referencing it. The upload strictly
// precedes the insert, so no stored row ever references an object that was
// not written. A failed insert triggers a best-effort delete of the object.
func (s *Service) AddTestRecord(ctx context.Context, actor *model.Actor, patientUID, testName string, image *Image) (*model.RecordBundle, error) {
	if strings.TrimSpace(testName) == "" {
		return nil, apperrors.Validation("test name is required")
	}
	if image == nil || image.Reader == nil {
		return nil, apperrors.Validation("test image is required")
	}

	start := s.now()

	patient, err := s.patients.GetByUID(ctx, patientUID)
	if err != nil {
		return nil, err
	}

	key := s.imageKey(patient.Username, image.Filename)

	imageURL, err := s.store.Upload(ctx, key, image.Reader, image.Size, image.ContentType)
	if err != nil {
		s.countUpload("upload_failed")
		return nil, apperrors.Service("failed to upload test image", err)
	}

	test := &model.TestRecord{
		PatientID: patient.PatientID,
		DoctorID:  actor.ActorID,
		TestName:  testName,
		ImageURL:  imageURL,
	}
	if err := s.tests.Create(ctx, test); err != nil {
		s.countUpload("link_failed")
		s.compensate(ctx, key)
		return nil, apperrors.PartialFailure("test image stored but record not created", err)
	}

	s.countUpload("ok")
	if s.metrics != nil {
		s.metrics.UploadLatency.Observe(s.now().Sub(start).Seconds())
	}
	return s.refresh(ctx, patient.UID)
}

// imageKey derives a collision-free storage key without a coordination
// service, mirroring <username>_<unix-millis><ext>.
func (s *Service) imageKey(username, filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s_%d%s", username, s.now().UnixMilli(), ext)
}

// compensate removes the uploaded object after a failed link insert. Failure
// here leaves an orphan; it is logged and counted, never retried.
func (s *Service) compensate(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.Error(err, "failed to delete orphaned upload", "key", key)
		if s.metrics != nil {
			s.metrics.OrphanedUploads.Inc()
		}
		return
	}
	if s.metrics != nil {
		s.metrics.CompensatedUploads.Inc()
	}
}

// refresh drops the cached bundle and reloads the patient's collections so
// callers see the new record with correct sort order.
func (s *Service) refresh(ctx context.Context, uid string) (*model.RecordBundle, error) {
	if s.cache != nil {
		s.cache.Delete(ctx, bundleKey(uid))
	}
	return s.LoadPatientRecords(ctx, uid)
}

func bundleKey(uid string) string {
	return "bundle:" + uid
}

func (s *Service) cachedBundle(ctx context.Context, uid string) (*model.RecordBundle, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok := s.cache.Get(ctx, bundleKey(uid))
	if !ok {
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
		return nil, false
	}
	var bundle model.RecordBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
	return &bundle, true
}

func (s *Service) storeBundle(ctx context.Context, uid string, bundle *model.RecordBundle) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return
	}
	s.cache.Set(ctx, bundleKey(uid), data, s.cacheTTL)
}

func (s *Service) countLoad(result string) {
	if s.metrics != nil {
		s.metrics.RecordLoads.WithLabelValues(result).Inc()
	}
}

func (s *Service) countUpload(result string) {
	if s.metrics != nil {
		s.metrics.UploadsTotal.WithLabelValues(result).Inc()
	}
}
