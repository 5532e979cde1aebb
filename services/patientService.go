package services

import (
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"DentistAPI/utils"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PatientSummary is a patient as listed to staff.
type PatientSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber int64     `json:"phonenumber"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	DateOfBirth string    `json:"date_of_birth"`
	Address     string    `json:"address"`
	Active      bool      `json:"active"`
}

type MedicalDetailsView struct {
	Name        string   `json:"name"`
	PhoneNumber int64    `json:"phonenumber"`
	Allergies   []string `json:"allergies"`
	Illnesses   []string `json:"illnesses"`
	Smoking     bool     `json:"smoking"`
	Drinking    bool     `json:"drinking"`
	Tobacco     bool     `json:"tobacco"`
}

// ComplaintHistory is one complaint with everything recorded against it.
type ComplaintHistory struct {
	ID           uuid.UUID         `json:"id"`
	Complaint    string            `json:"complaint"`
	RegisteredAt time.Time         `json:"registered_at"`
	Diagnoses    []DiagnosisView   `json:"diagnosis"`
	FollowUps    []models.FollowUp `json:"followups"`
	Bill         *BillView         `json:"bill"`
}

type PatientService struct {
	patients   repositories.PatientRepository
	complaints repositories.ComplaintRepository
	diagnoses  repositories.DiagnosisRepository
	followUps  repositories.FollowUpRepository
	bills      repositories.BillingRepository
	clock      *utils.Clock
	log        *logrus.Logger
}

func NewPatientService(
	patients repositories.PatientRepository,
	complaints repositories.ComplaintRepository,
	diagnoses repositories.DiagnosisRepository,
	followUps repositories.FollowUpRepository,
	bills repositories.BillingRepository,
	clock *utils.Clock,
	log *logrus.Logger,
) *PatientService {
	return &PatientService{
		patients:   patients,
		complaints: complaints,
		diagnoses:  diagnoses,
		followUps:  followUps,
		bills:      bills,
		clock:      clock,
		log:        log,
	}
}

// Register provisions a patient credential without a password, together with its details.
func (s *PatientService) Register(ctx context.Context, req models.RegisterPatientRequest) (*PatientSummary, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	phoneNumber := req.PhoneNumber.Int64()
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, validationError(CodeInvalidPhoneFormat, err)
	}
	dateOfBirth, err := time.Parse(models.DateLayout, req.Details.DateOfBirth)
	if err != nil {
		return nil, invalidInput("date_of_birth must be in YYYY-MM-DD format")
	}

	credential := &models.Credential{
		PhoneNumber: phoneNumber,
		Name:        utils.CapitalizeName(req.Details.Name),
		Role:        models.RolePatient,
	}
	details := &models.PatientDetails{
		DateOfBirth: dateOfBirth,
		Address:     req.Details.Address,
		Gender:      req.Details.Gender,
	}
	if err := s.patients.CreateWithDetails(ctx, credential, details); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict(CodeDuplicateEntry, "Account exists for this name and phonenumber")
		}
		return nil, storeError(err, "Patient")
	}
	credential.Details = details

	metrics.RecordCreated("patient")
	s.log.WithField("credential_id", credential.ID).Info("Patient registered")
	summary := s.summarize(credential)
	return &summary, nil
}

func (s *PatientService) List(ctx context.Context, namePrefix string, activeOnly bool) ([]PatientSummary, error) {
	patients, err := s.patients.List(ctx, repositories.PatientFilter{
		NamePrefix: utils.CapitalizeName(namePrefix),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, storeError(err, "Patient")
	}
	return s.summarizeAll(patients), nil
}

// ListByPhoneNumber returns every patient registered on phoneNumber.
func (s *PatientService) ListByPhoneNumber(ctx context.Context, phoneNumber int64) ([]PatientSummary, error) {
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, validationError(CodeInvalidPhoneFormat, err)
	}
	patients, err := s.patients.ListByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, storeError(err, "Patient")
	}
	return s.summarizeAll(patients), nil
}

// History returns all complaints of a patient, newest first.
func (s *PatientService) History(ctx context.Context, phoneNumber int64, name string) ([]ComplaintHistory, error) {
	patient, err := s.findPatient(ctx, phoneNumber, utils.CapitalizeName(name))
	if err != nil {
		return nil, err
	}

	complaints, err := s.complaints.ListByCredential(ctx, patient.ID)
	if err != nil {
		return nil, storeError(err, "Complaint")
	}

	history := make([]ComplaintHistory, 0, len(complaints))
	for _, complaint := range complaints {
		diagnoses, err := s.diagnoses.ListByComplaint(ctx, complaint.ID)
		if err != nil {
			return nil, storeError(err, "Diagnosis")
		}
		followUps, err := s.followUps.ListByComplaint(ctx, complaint.ID)
		if err != nil {
			return nil, storeError(err, "Followup")
		}
		bill, err := s.bills.FindByComplaint(ctx, complaint.ID)
		if err != nil {
			return nil, storeError(err, "Bill")
		}
		history = append(history, ComplaintHistory{
			ID:           complaint.ID,
			Complaint:    complaint.Description,
			RegisteredAt: complaint.RegisteredAt,
			Diagnoses:    diagnosisViews(diagnoses),
			FollowUps:    emptyIfNil(followUps),
			Bill:         billView(complaint.ID, bill),
		})
	}
	return history, nil
}

// MedicalDetails looks the patient up by phone number and an already normalised name.
func (s *PatientService) MedicalDetails(ctx context.Context, phoneNumber int64, name string) (*MedicalDetailsView, error) {
	patient, err := s.findPatient(ctx, phoneNumber, name)
	if err != nil {
		return nil, err
	}
	view := &MedicalDetailsView{
		Name:        patient.Name,
		PhoneNumber: patient.PhoneNumber,
		Allergies:   []string{},
		Illnesses:   []string{},
	}
	if d := patient.Details; d != nil {
		view.Allergies = utils.SplitList(d.Allergies)
		view.Illnesses = utils.SplitList(d.Illnesses)
		view.Smoking = d.Smoking
		view.Drinking = d.Drinking
		view.Tobacco = d.Tobacco
	}
	return view, nil
}

func (s *PatientService) SaveMedicalDetails(ctx context.Context, req models.MedicalDetailsRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	patient, err := s.findPatient(ctx, req.Identity.PhoneNumber.Int64(), utils.CapitalizeName(req.Identity.Name))
	if err != nil {
		return err
	}

	details := req.MedicalDetails
	if err := s.patients.UpdateMedicalDetails(ctx, patient.ID, repositories.MedicalDetails{
		Allergies: utils.JoinList(details.Allergies),
		Illnesses: utils.JoinList(details.Illnesses),
		Smoking:   details.Smoking,
		Drinking:  details.Drinking,
		Tobacco:   details.Tobacco,
	}); err != nil {
		return storeError(err, "Patient details")
	}
	s.log.WithField("credential_id", patient.ID).Info("Medical details saved")
	return nil
}

func (s *PatientService) findPatient(ctx context.Context, phoneNumber int64, name string) (*models.Credential, error) {
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, validationError(CodeInvalidPhoneFormat, err)
	}
	patient, err := s.patients.FindByIdentity(ctx, phoneNumber, name)
	if err != nil {
		return nil, storeError(err, "User")
	}
	if patient == nil {
		return nil, notFound("User does not exist")
	}
	return patient, nil
}

func (s *PatientService) summarize(c *models.Credential) PatientSummary {
	summary := PatientSummary{
		ID:          c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Active:      c.Active,
	}
	if d := c.Details; d != nil {
		summary.Age = s.clock.Age(d.DateOfBirth)
		summary.Gender = d.Gender
		summary.DateOfBirth = d.DateOfBirth.Format(models.DateLayout)
		summary.Address = d.Address
	}
	return summary
}

func (s *PatientService) summarizeAll(patients []models.Credential) []PatientSummary {
	summaries := make([]PatientSummary, 0, len(patients))
	for i := range patients {
		summaries = append(summaries, s.summarize(&patients[i]))
	}
	return summaries
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
