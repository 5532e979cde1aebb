package services

import (
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DiagnosisView struct {
	ID            uuid.UUID `json:"id"`
	ComplaintID   uuid.UUID `json:"complaint"`
	ToothNumber   int       `json:"tooth_number"`
	TreatmentID   uuid.UUID `json:"treatment"`
	TreatmentName string    `json:"treatment_name"`
	Price         int       `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
}

func diagnosisView(d *models.Diagnosis) DiagnosisView {
	return DiagnosisView{
		ID:            d.ID,
		ComplaintID:   d.ComplaintID,
		ToothNumber:   d.ToothNumber,
		TreatmentID:   d.TreatmentID,
		TreatmentName: d.Treatment.Name,
		Price:         d.Treatment.Price,
		CreatedAt:     d.CreatedAt,
	}
}

func diagnosisViews(diagnoses []models.Diagnosis) []DiagnosisView {
	views := make([]DiagnosisView, 0, len(diagnoses))
	for i := range diagnoses {
		views = append(views, diagnosisView(&diagnoses[i]))
	}
	return views
}

// DiagnosisService manages per-tooth diagnoses. The bill total follows every change.
type DiagnosisService struct {
	complaints repositories.ComplaintRepository
	diagnoses  repositories.DiagnosisRepository
	catalog    repositories.CatalogRepository
	log        *logrus.Logger
}

func NewDiagnosisService(complaints repositories.ComplaintRepository, diagnoses repositories.DiagnosisRepository, catalog repositories.CatalogRepository, log *logrus.Logger) *DiagnosisService {
	return &DiagnosisService{complaints: complaints, diagnoses: diagnoses, catalog: catalog, log: log}
}

func (s *DiagnosisService) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]DiagnosisView, error) {
	if _, err := findComplaint(ctx, s.complaints, complaintID); err != nil {
		return nil, err
	}
	diagnoses, err := s.diagnoses.ListByComplaint(ctx, complaintID)
	if err != nil {
		return nil, storeError(err, "Diagnosis")
	}
	return diagnosisViews(diagnoses), nil
}

func (s *DiagnosisService) Create(ctx context.Context, req models.CreateDiagnosisRequest) (*DiagnosisView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := findComplaint(ctx, s.complaints, req.Complaint); err != nil {
		return nil, err
	}
	treatment, err := s.findTreatment(ctx, req.Treatment)
	if err != nil {
		return nil, err
	}

	diagnosis := &models.Diagnosis{
		ComplaintID: req.Complaint,
		ToothNumber: req.ToothNumber,
		TreatmentID: treatment.ID,
	}
	if err := s.diagnoses.Create(ctx, diagnosis, treatment.Price); err != nil {
		return nil, diagnosisStoreError(err)
	}
	diagnosis.Treatment = *treatment

	metrics.RecordCreated("diagnosis")
	s.log.WithFields(logrus.Fields{"diagnosis_id": diagnosis.ID, "complaint_id": diagnosis.ComplaintID}).Info("Diagnosis created")
	view := diagnosisView(diagnosis)
	return &view, nil
}

// Update swaps the treatment of a diagnosis and moves the bill by the price difference.
func (s *DiagnosisService) Update(ctx context.Context, req models.UpdateDiagnosisRequest) (*DiagnosisView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	diagnosis, err := s.findDiagnosis(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if diagnosis.TreatmentID == req.Treatment {
		view := diagnosisView(diagnosis)
		return &view, nil
	}
	treatment, err := s.findTreatment(ctx, req.Treatment)
	if err != nil {
		return nil, err
	}

	delta := treatment.Price - diagnosis.Treatment.Price
	if err := s.diagnoses.UpdateTreatment(ctx, diagnosis, treatment.ID, delta); err != nil {
		return nil, diagnosisStoreError(err)
	}
	diagnosis.Treatment = *treatment
	view := diagnosisView(diagnosis)
	return &view, nil
}

// Delete removes a diagnosis and returns the confirmation message.
func (s *DiagnosisService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	diagnosis, err := s.findDiagnosis(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.diagnoses.Delete(ctx, diagnosis, diagnosis.Treatment.Price); err != nil {
		return "", diagnosisStoreError(err)
	}
	s.log.WithFields(logrus.Fields{"diagnosis_id": diagnosis.ID, "complaint_id": diagnosis.ComplaintID}).Info("Diagnosis deleted")
	return fmt.Sprintf("Tooth %d's diagnosis deleted", diagnosis.ToothNumber), nil
}

func (s *DiagnosisService) findDiagnosis(ctx context.Context, id uuid.UUID) (*models.Diagnosis, error) {
	diagnosis, err := s.diagnoses.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Diagnosis")
	}
	if diagnosis == nil {
		return nil, notFound("Diagnosis does not exist")
	}
	return diagnosis, nil
}

func (s *DiagnosisService) findTreatment(ctx context.Context, id uuid.UUID) (*models.Treatment, error) {
	treatment, err := s.catalog.FindTreatment(ctx, id)
	if err != nil {
		return nil, storeError(err, "Treatment")
	}
	if treatment == nil {
		return nil, notFound("Treatment does not exist")
	}
	return treatment, nil
}

func diagnosisStoreError(err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return conflict(CodeDuplicateEntry, "Diagnosis already exists for this tooth and treatment")
	}
	return storeError(err, "Diagnosis")
}
