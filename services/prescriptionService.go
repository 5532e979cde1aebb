package services

import (
	"DentistAPI/config"
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"DentistAPI/utils"
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PrescriptionDocument is a rendered prescription ready to be sent.
type PrescriptionDocument struct {
	FileName string
	Content  []byte
}

type PrescriptionService struct {
	complaints    repositories.ComplaintRepository
	followUps     repositories.FollowUpRepository
	prescriptions repositories.PatientPrescriptionRepository
	catalog       repositories.CatalogRepository
	clinic        config.ClinicConfig
	clock         *utils.Clock
	log           *logrus.Logger
}

func NewPrescriptionService(
	complaints repositories.ComplaintRepository,
	followUps repositories.FollowUpRepository,
	prescriptions repositories.PatientPrescriptionRepository,
	catalog repositories.CatalogRepository,
	clinic config.ClinicConfig,
	clock *utils.Clock,
	log *logrus.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		complaints:    complaints,
		followUps:     followUps,
		prescriptions: prescriptions,
		catalog:       catalog,
		clinic:        clinic,
		clock:         clock,
		log:           log,
	}
}

// List returns the prescriptions of a complaint, or of one sitting when sitting is set.
func (s *PrescriptionService) List(ctx context.Context, complaintID uuid.UUID, sitting *int) ([]models.PatientPrescription, error) {
	if _, err := findComplaint(ctx, s.complaints, complaintID); err != nil {
		return nil, err
	}

	var (
		prescriptions []models.PatientPrescription
		err           error
	)
	if sitting != nil {
		prescriptions, err = s.prescriptions.ListBySitting(ctx, complaintID, *sitting)
	} else {
		prescriptions, err = s.prescriptions.ListByComplaint(ctx, complaintID)
	}
	if err != nil {
		return nil, storeError(err, "Prescription")
	}
	return emptyIfNil(prescriptions), nil
}

func (s *PrescriptionService) Create(ctx context.Context, req models.CreatePrescriptionRequest) (*models.PatientPrescription, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := findComplaint(ctx, s.complaints, req.ComplaintID); err != nil {
		return nil, err
	}
	if err := s.checkSitting(ctx, req.ComplaintID, req.Sitting); err != nil {
		return nil, err
	}

	entry, err := s.catalog.FindPrescription(ctx, req.PrescriptionID)
	if err != nil {
		return nil, storeError(err, "Prescription")
	}
	if entry == nil {
		return nil, notFound("Prescription does not exist")
	}

	prescription := &models.PatientPrescription{
		ComplaintID:    req.ComplaintID,
		Sitting:        req.Sitting,
		PrescriptionID: entry.ID,
		Dosage:         req.Dosage,
		DurationDays:   req.DurationDays,
		Instructions:   req.Instructions,
	}
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict(CodeDuplicateEntry, "Prescription already added for this sitting")
		}
		return nil, storeError(err, "Prescription")
	}
	prescription.Prescription = *entry

	metrics.RecordCreated("prescription")
	s.log.WithFields(logrus.Fields{"prescription_id": prescription.ID, "complaint_id": prescription.ComplaintID}).Info("Prescription added")
	return prescription, nil
}

func (s *PrescriptionService) Update(ctx context.Context, req models.UpdatePrescriptionRequest) (*models.PatientPrescription, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	err := s.prescriptions.Update(ctx, req.ID, repositories.PrescriptionUpdate{
		Dosage:       req.Dosage,
		DurationDays: req.DurationDays,
		Instructions: req.Instructions,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Prescription does not exist")
		}
		return nil, storeError(err, "Prescription")
	}

	prescription, err := s.prescriptions.FindByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "Prescription")
	}
	if prescription == nil {
		return nil, notFound("Prescription does not exist")
	}
	return prescription, nil
}

func (s *PrescriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.prescriptions.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Prescription does not exist")
		}
		return storeError(err, "Prescription")
	}
	s.log.WithField("prescription_id", id).Info("Prescription deleted")
	return nil
}

// Document renders the prescriptions of one sitting as a PDF.
func (s *PrescriptionService) Document(ctx context.Context, complaintID uuid.UUID, sitting int) (*PrescriptionDocument, error) {
	complaint, err := findComplaint(ctx, s.complaints, complaintID)
	if err != nil {
		return nil, err
	}
	prescriptions, err := s.prescriptions.ListBySitting(ctx, complaintID, sitting)
	if err != nil {
		return nil, storeError(err, "Prescription")
	}
	if len(prescriptions) == 0 {
		return nil, notFound("No prescriptions for this sitting")
	}

	patient := complaint.Credential
	sheet := utils.PrescriptionSheet{
		ClinicName:    s.clinic.Name,
		ClinicAddress: s.clinic.Address,
		ClinicPhone:   s.clinic.Phone,
		PatientName:   patient.Name,
		PhoneNumber:   patient.PhoneNumber,
		Complaint:     complaint.Description,
		Sitting:       sitting,
		IssuedAt:      s.clock.Now(),
		Items:         make([]utils.PrescriptionLine, 0, len(prescriptions)),
	}
	if len(s.clinic.Font) > 0 {
		sheet.Font = &utils.PDFFont{Regular: s.clinic.Font, Bold: s.clinic.BoldFont}
	}
	if patient.Details != nil {
		sheet.PatientAge = s.clock.Age(patient.Details.DateOfBirth)
		sheet.PatientGender = patient.Details.Gender
	}
	for _, p := range prescriptions {
		sheet.Items = append(sheet.Items, utils.PrescriptionLine{
			Name:         p.Prescription.Name,
			Type:         p.Prescription.Type,
			Dosage:       p.Dosage,
			DurationDays: p.DurationDays,
			Instructions: p.Instructions,
		})
	}

	var buf bytes.Buffer
	if err := utils.RenderPrescriptionPDF(&buf, sheet); err != nil {
		return nil, internalError(err)
	}
	metrics.RecordPrescriptionRendered()

	return &PrescriptionDocument{
		FileName: fmt.Sprintf("prescription_%s_%d.pdf", utils.SnakeName(patient.Name), sitting),
		Content:  buf.Bytes(),
	}, nil
}

// checkSitting accepts the initial visit or the number of an existing follow-up.
func (s *PrescriptionService) checkSitting(ctx context.Context, complaintID uuid.UUID, sitting int) error {
	if sitting == 0 {
		return nil
	}
	exists, err := s.followUps.ExistsNumber(ctx, complaintID, sitting)
	if err != nil {
		return storeError(err, "Followup")
	}
	if !exists {
		return notFound(fmt.Sprintf("Followup %d does not exist for this complaint", sitting))
	}
	return nil
}
