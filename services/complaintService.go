package services

import (
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"DentistAPI/utils"
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ComplaintEntry is one row of the front desk's daily list.
type ComplaintEntry struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	PhoneNumber int64     `json:"phonenumber"`
	Time        string    `json:"time"`
	Complaint   string    `json:"complaint"`
}

type ComplaintService struct {
	patients   repositories.PatientRepository
	complaints repositories.ComplaintRepository
	clock      *utils.Clock
	log        *logrus.Logger
}

func NewComplaintService(patients repositories.PatientRepository, complaints repositories.ComplaintRepository, clock *utils.Clock, log *logrus.Logger) *ComplaintService {
	return &ComplaintService{patients: patients, complaints: complaints, clock: clock, log: log}
}

// Register records a new complaint stamped with the current time and opens the
// patient's course of treatment.
func (s *ComplaintService) Register(ctx context.Context, req models.RegisterComplaintRequest) (*models.Complaint, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	phoneNumber := req.PhoneNumber.Int64()
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, validationError(CodeInvalidPhoneFormat, err)
	}

	patient, err := s.patients.FindByIdentity(ctx, phoneNumber, utils.CapitalizeName(req.Complaint.Name))
	if err != nil {
		return nil, storeError(err, "User")
	}
	if patient == nil {
		return nil, newError(KindNotFound, CodeNotRegistered, "User is not registered. Register them please")
	}

	complaint := &models.Complaint{
		CredentialID: patient.ID,
		Description:  req.Complaint.ChiefComplaint,
		RegisteredAt: s.clock.Now(),
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, storeError(err, "Complaint")
	}

	metrics.RecordCreated("complaint")
	s.log.WithFields(logrus.Fields{"complaint_id": complaint.ID, "credential_id": patient.ID}).Info("Complaint registered")
	return complaint, nil
}

// Today lists complaints registered since midnight in the clinic timezone.
func (s *ComplaintService) Today(ctx context.Context) ([]ComplaintEntry, error) {
	from, to := s.clock.Today()
	complaints, err := s.complaints.ListRegisteredBetween(ctx, from, to)
	if err != nil {
		return nil, storeError(err, "Complaint")
	}

	entries := make([]ComplaintEntry, 0, len(complaints))
	for _, c := range complaints {
		entry := ComplaintEntry{
			ID:          c.ID,
			Name:        c.Credential.Name,
			PhoneNumber: c.Credential.PhoneNumber,
			Time:        c.RegisteredAt.In(s.clock.Location()).Format(models.TimeOfDayLayout),
			Complaint:   c.Description,
		}
		if c.Credential.Details != nil {
			entry.Age = s.clock.Age(c.Credential.Details.DateOfBirth)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// findComplaint returns a NotFound error when id names no complaint.
func findComplaint(ctx context.Context, complaints repositories.ComplaintRepository, id uuid.UUID) (*models.Complaint, error) {
	complaint, err := complaints.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Complaint")
	}
	if complaint == nil {
		return nil, notFound("Complaint does not exist")
	}
	return complaint, nil
}
