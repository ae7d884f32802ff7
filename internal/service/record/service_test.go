package record

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/pkg/cache"
	apperrors "github.com/mediconnect/ehr-api/pkg/errors"
	"github.com/mediconnect/ehr-api/pkg/logger"
)

type fakePatientRepo struct {
	byUID    map[string]*model.Patient
	err      error
	getCalls int
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	p.PatientID = int64(len(f.byUID) + 1)
	f.byUID[p.UID] = p
	return nil
}

func (f *fakePatientRepo) GetByUID(_ context.Context, uid string) (*model.Patient, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byUID[uid]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (f *fakePatientRepo) GetByUsername(_ context.Context, username string) (*model.Patient, error) {
	f.getCalls++
	for _, p := range f.byUID {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (f *fakePatientRepo) GetByUsernameAndUID(_ context.Context, username, uid string) (*model.Patient, error) {
	f.getCalls++
	if p, ok := f.byUID[uid]; ok && p.Username == username {
		return p, nil
	}
	return nil, apperrors.NotFound("patient", nil)
}

type fakePrescriptionRepo struct {
	items       []model.Prescription
	createErr   error
	listErr     error
	createCalls int
}

func (f *fakePrescriptionRepo) Create(_ context.Context, p *model.Prescription) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	p.PrescriptionID = int64(len(f.items) + 1)
	p.CreatedAt = time.Now()
	f.items = append([]model.Prescription{*p}, f.items...)
	return nil
}

func (f *fakePrescriptionRepo) ListByPatient(_ context.Context, _ int64) ([]model.Prescription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

type fakeTestRepo struct {
	items       []model.TestRecord
	createErr   error
	listErr     error
	createCalls int
}

func (f *fakeTestRepo) Create(_ context.Context, t *model.TestRecord) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	t.TestID = int64(len(f.items) + 1)
	t.CreatedAt = time.Now()
	f.items = append([]model.TestRecord{*t}, f.items...)
	return nil
}

func (f *fakeTestRepo) ListByPatient(_ context.Context, _ int64) ([]model.TestRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

type fakeAllergyRepo struct {
	items       []model.Allergy
	createErr   error
	createCalls int
}

func (f *fakeAllergyRepo) Create(_ context.Context, a *model.Allergy) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	a.AllergyID = int64(len(f.items) + 1)
	a.CreatedAt = time.Now()
	f.items = append([]model.Allergy{*a}, f.items...)
	return nil
}

func (f *fakeAllergyRepo) ListByPatient(_ context.Context, _ int64) ([]model.Allergy, error) {
	return f.items, nil
}

type fakeStore struct {
	objects     map[string][]byte
	uploadErr   error
	removeErr   error
	uploadCalls int
	removed     []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	f.uploadCalls++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, _ := io.ReadAll(r)
	f.objects[key] = data
	return f.PublicURL(key), nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://storage.example/test_images/" + key
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

type fixture struct {
	svc           *Service
	patients      *fakePatientRepo
	prescriptions *fakePrescriptionRepo
	tests         *fakeTestRepo
	allergies     *fakeAllergyRepo
	store         *fakeStore
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		patients: &fakePatientRepo{byUID: map[string]*model.Patient{
			"P100": {PatientID: 1, UID: "P100", Username: "alice", Age: 30, Contact: "9876543210"},
		}},
		prescriptions: &fakePrescriptionRepo{},
		tests:         &fakeTestRepo{},
		allergies:     &fakeAllergyRepo{},
		store:         newFakeStore(),
	}
	f.svc = NewService(f.patients, f.prescriptions, f.tests, f.allergies, f.store, logger.NewLogger(nil), opts...)
	return f
}

func doctor() *model.Actor {
	return &model.Actor{Role: model.RoleDoctor, Username: "drwho", FullName: "Dr. Who", ActorID: 7}
}

func TestLoadPatientRecords(t *testing.T) {
	f := newFixture()
	f.prescriptions.items = []model.Prescription{
		{PrescriptionID: 2, PatientID: 1, Medicines: "B", CreatedAt: ts("2024-02-10T00:00:00Z")},
		{PrescriptionID: 1, PatientID: 1, Medicines: "A", CreatedAt: ts("2024-01-10T00:00:00Z")},
	}

	bundle, err := f.svc.LoadPatientRecords(context.Background(), "P100")

	require.NoError(t, err)
	assert.Equal(t, "alice", bundle.Patient.Username)
	require.Len(t, bundle.Prescriptions, 2)
	assert.True(t, !bundle.Prescriptions[0].CreatedAt.Before(bundle.Prescriptions[1].CreatedAt))
	assert.Equal(t, []model.MonthCount{
		{Month: "2024-01", Count: 1},
		{Month: "2024-02", Count: 1},
	}, bundle.Insights.PrescriptionsPerMonth)
	assert.Equal(t, 2, bundle.Insights.TotalPrescriptions)
}

func TestLoadPatientRecordsNotFound(t *testing.T) {
	f := newFixture()

	bundle, err := f.svc.LoadPatientRecords(context.Background(), "P999")

	assert.Nil(t, bundle)
	assert.True(t, apperrors.IsNotFound(err))

	// Re-loading with the same bad identifier yields the same answer.
	bundle, err = f.svc.LoadPatientRecords(context.Background(), "P999")
	assert.Nil(t, bundle)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLoadPatientRecordsEmptyIdentifier(t *testing.T) {
	f := newFixture()

	_, err := f.svc.LoadPatientRecords(context.Background(), "  ")

	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, f.patients.getCalls)
}

func TestLoadPatientRecordsServiceFailureIsNotNotFound(t *testing.T) {
	f := newFixture()
	f.prescriptions.listErr = apperrors.Service("failed to list prescriptions", errors.New("conn refused"))

	_, err := f.svc.LoadPatientRecords(context.Background(), "P100")

	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))
	assert.Equal(t, apperrors.KindService, apperrors.KindOf(err))
}

func TestLoadPatientRecordsByLogin(t *testing.T) {
	f := newFixture()

	bundle, err := f.svc.LoadPatientRecordsByLogin(context.Background(), "alice", "P100")
	require.NoError(t, err)
	assert.Equal(t, "P100", bundle.Patient.UID)

	_, err = f.svc.LoadPatientRecordsByLogin(context.Background(), "mallory", "P100")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLoadPatientRecordsUsesCache(t *testing.T) {
	f := newFixture(WithCache(cache.NewMemory(time.Minute), time.Minute))

	_, err := f.svc.LoadPatientRecords(context.Background(), "P100")
	require.NoError(t, err)
	_, err = f.svc.LoadPatientRecords(context.Background(), "P100")
	require.NoError(t, err)

	assert.Equal(t, 1, f.patients.getCalls)
}

func TestAddPrescription(t *testing.T) {
	f := newFixture()

	bundle, err := f.svc.AddPrescription(context.Background(), doctor(), "P100", &model.AddPrescriptionRequest{
		Medicines: "Paracetamol",
		Dosage:    "500mg twice daily",
	})

	require.NoError(t, err)
	require.Len(t, bundle.Prescriptions, 1)
	assert.Equal(t, "Dr. Who", bundle.Prescriptions[0].DoctorName)
	assert.Equal(t, int64(7), bundle.Prescriptions[0].DoctorID)
	assert.Equal(t, int64(1), bundle.Prescriptions[0].PatientID)
}

func TestAddPrescriptionValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddPrescription(context.Background(), doctor(), "P100", &model.AddPrescriptionRequest{
		Medicines: "Paracetamol",
	})

	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, f.patients.getCalls)
	assert.Zero(t, f.prescriptions.createCalls)
}

func TestAddPrescriptionInvalidatesCache(t *testing.T) {
	f := newFixture(WithCache(cache.NewMemory(time.Minute), time.Minute))

	bundle, err := f.svc.LoadPatientRecords(context.Background(), "P100")
	require.NoError(t, err)
	assert.Empty(t, bundle.Prescriptions)

	bundle, err = f.svc.AddPrescription(context.Background(), doctor(), "P100", &model.AddPrescriptionRequest{
		Medicines: "Ibuprofen",
		Dosage:    "200mg",
	})
	require.NoError(t, err)
	assert.Len(t, bundle.Prescriptions, 1)
}

func TestAddAllergy(t *testing.T) {
	f := newFixture()

	bundle, err := f.svc.AddAllergy(context.Background(), doctor(), "P100", &model.AddAllergyRequest{
		Allergen: "Penicillin",
		Severity: "high",
	})

	require.NoError(t, err)
	require.Len(t, bundle.Allergies, 1)
	assert.Equal(t, "Dr. Who", bundle.Allergies[0].AddedBy)
}

func TestAddAllergyValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddAllergy(context.Background(), doctor(), "P100", &model.AddAllergyRequest{Allergen: "Dust"})

	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, f.allergies.createCalls)
}

func testImage() *Image {
	return &Image{
		Filename:    "scan.png",
		ContentType: "image/png",
		Size:        4,
		Reader:      strings.NewReader("data"),
	}
}

func TestAddTestRecord(t *testing.T) {
	f := newFixture()
	f.svc.now = func() time.Time { return ts("2024-03-01T12:00:00Z") }

	bundle, err := f.svc.AddTestRecord(context.Background(), doctor(), "P100", "Blood Test", testImage())

	require.NoError(t, err)
	require.Len(t, bundle.Tests, 1)

	wantKey := "alice_1709294400000.png"
	assert.Contains(t, f.store.objects, wantKey)
	assert.Equal(t, f.store.PublicURL(wantKey), bundle.Tests[0].ImageURL)
	assert.Equal(t, "Blood Test", bundle.Tests[0].TestName)
}

func TestAddTestRecordEmptyNameMakesNoCalls(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddTestRecord(context.Background(), doctor(), "P100", "", testImage())

	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, f.patients.getCalls)
	assert.Zero(t, f.store.uploadCalls)
	assert.Zero(t, f.tests.createCalls)
}

func TestAddTestRecordMissingImage(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddTestRecord(context.Background(), doctor(), "P100", "Blood Test", nil)

	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, f.store.uploadCalls)
}

func TestAddTestRecordUploadFailureCreatesNoRecord(t *testing.T) {
	f := newFixture()
	f.store.uploadErr = errors.New("transfer aborted")

	_, err := f.svc.AddTestRecord(context.Background(), doctor(), "P100", "Blood Test", testImage())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindService, apperrors.KindOf(err))
	assert.Zero(t, f.tests.createCalls)
	assert.Empty(t, f.tests.items)
}

func TestAddTestRecordLinkFailureCompensates(t *testing.T) {
	f := newFixture()
	f.tests.createErr = apperrors.Service("failed to create test record", errors.New("constraint violation"))

	_, err := f.svc.AddTestRecord(context.Background(), doctor(), "P100", "Blood Test", testImage())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindPartialFailure, apperrors.KindOf(err))
	assert.Len(t, f.store.removed, 1)
	assert.Empty(t, f.store.objects)
	assert.Empty(t, f.tests.items)
}

func TestAddTestRecordLinkFailureOrphanWhenDeleteFails(t *testing.T) {
	f := newFixture()
	f.tests.createErr = apperrors.Service("failed to create test record", errors.New("constraint violation"))
	f.store.removeErr = errors.New("network down")

	_, err := f.svc.AddTestRecord(context.Background(), doctor(), "P100", "Blood Test", testImage())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindPartialFailure, apperrors.KindOf(err))
	// The uploaded object stays behind as an orphan.
	assert.Len(t, f.store.objects, 1)
	assert.Empty(t, f.store.removed)
}
