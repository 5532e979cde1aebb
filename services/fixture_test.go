package services

import (
	"DentistAPI/config"
	"DentistAPI/models"
	"DentistAPI/utils"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// clinicNow is 10:30 on 14 March 2024 in the clinic timezone.
var clinicNow = time.Date(2024, time.March, 14, 10, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

type fixture struct {
	store         *store
	clock         *utils.Clock
	tokens        *utils.TokenService
	auth          *AuthService
	patients      *PatientService
	complaints    *ComplaintService
	diagnoses     *DiagnosisService
	followUps     *FollowUpService
	billing       *BillingService
	prescriptions *PrescriptionService
	catalog       *CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newStore()
	log := newTestLogger()
	clock := utils.NewFixedClock(clinicNow)

	tokens, err := utils.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	hasher := utils.NewPasswordHasher(4)

	credentials := fakeCredentialRepository{st}
	patients := fakePatientRepository{st}
	complaints := fakeComplaintRepository{st}
	diagnoses := fakeDiagnosisRepository{st}
	followUps := fakeFollowUpRepository{st}
	bills := fakeBillingRepository{st}
	prescriptions := fakePrescriptionRepository{st}
	catalog := fakeCatalogRepository{st}
	clinic := config.ClinicConfig{Name: "Test Dental Clinic", Address: "1 Main Road", Phone: "0800000000"}

	return &fixture{
		store:         st,
		clock:         clock,
		tokens:        tokens,
		auth:          NewAuthService(credentials, tokens, hasher, log),
		patients:      NewPatientService(patients, complaints, diagnoses, followUps, bills, clock, log),
		complaints:    NewComplaintService(patients, complaints, clock, log),
		diagnoses:     NewDiagnosisService(complaints, diagnoses, catalog, log),
		followUps:     NewFollowUpService(complaints, followUps, clock, log),
		billing:       NewBillingService(complaints, bills, log),
		prescriptions: NewPrescriptionService(complaints, followUps, prescriptions, catalog, clinic, clock, log),
		catalog:       NewCatalogService(catalog, log),
	}
}

func (f *fixture) registerPatient(t *testing.T, phoneNumber int64, name string) *PatientSummary {
	t.Helper()
	summary, err := f.patients.Register(context.Background(), models.RegisterPatientRequest{
		PhoneNumber: models.PhoneNumber(phoneNumber),
		Details: models.PatientDetailsInput{
			Name:        name,
			DateOfBirth: "1990-06-01",
			Address:     "12 Lake View",
			Gender:      models.GenderMale,
		},
	})
	if err != nil {
		t.Fatalf("Register patient: %v", err)
	}
	return summary
}

func (f *fixture) registerComplaint(t *testing.T, phoneNumber int64, name string) *models.Complaint {
	t.Helper()
	complaint, err := f.complaints.Register(context.Background(), models.RegisterComplaintRequest{
		PhoneNumber: models.PhoneNumber(phoneNumber),
		Complaint:   models.ComplaintInput{Name: name, ChiefComplaint: "Pain in lower molar"},
	})
	if err != nil {
		t.Fatalf("Register complaint: %v", err)
	}
	return complaint
}

func (f *fixture) addTreatment(t *testing.T, name string, price int) *models.Treatment {
	t.Helper()
	treatment, err := f.catalog.CreateTreatment(context.Background(), models.CreateTreatmentRequest{Name: name, Price: price})
	if err != nil {
		t.Fatalf("CreateTreatment: %v", err)
	}
	return treatment
}

func (f *fixture) addMedication(t *testing.T, name, kind string) *models.Prescription {
	t.Helper()
	medication, err := f.catalog.CreatePrescription(context.Background(), models.CreatePrescriptionEntryRequest{Name: name, Type: kind})
	if err != nil {
		t.Fatalf("CreatePrescription: %v", err)
	}
	return medication
}

func (f *fixture) credential(t *testing.T, id uuid.UUID) *models.Credential {
	t.Helper()
	c, ok := f.store.credentials[id]
	if !ok {
		t.Fatalf("credential %s not stored", id)
	}
	return c
}

// assertCode fails unless err is a ServiceError with the wanted code and kind.
func assertCode(t *testing.T, err error, code string, kind ErrorKind) {
	t.Helper()
	var serr *ServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ServiceError %s, got %v", code, err)
	}
	if serr.Code != code || serr.Kind != kind {
		t.Fatalf("expected %s (kind %d), got %s (kind %d): %s", code, kind, serr.Code, serr.Kind, serr.Message)
	}
}
