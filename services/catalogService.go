package services

import (
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CatalogService manages the clinic's reference lists.
type CatalogService struct {
	catalog repositories.CatalogRepository
	log     *logrus.Logger
}

func NewCatalogService(catalog repositories.CatalogRepository, log *logrus.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, log: log}
}

func (s *CatalogService) Treatments(ctx context.Context) ([]models.Treatment, error) {
	treatments, err := s.catalog.ListTreatments(ctx)
	if err != nil {
		return nil, storeError(err, "Treatment")
	}
	return emptyIfNil(treatments), nil
}

func (s *CatalogService) CreateTreatment(ctx context.Context, req models.CreateTreatmentRequest) (*models.Treatment, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	treatment := &models.Treatment{Name: strings.TrimSpace(req.Name), Price: req.Price}
	if err := s.catalog.CreateTreatment(ctx, treatment); err != nil {
		return nil, catalogStoreError(err, "Treatment")
	}
	metrics.RecordCreated("treatment")
	s.log.WithField("treatment_id", treatment.ID).Info("Treatment added to catalog")
	return treatment, nil
}

// DeleteTreatment refuses to remove a treatment that a diagnosis still uses.
func (s *CatalogService) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	inUse, err := s.catalog.TreatmentInUse(ctx, id)
	if err != nil {
		return storeError(err, "Treatment")
	}
	if inUse {
		return conflict(CodeReferencedByRecord, "Treatment is used in a diagnosis and cannot be deleted")
	}
	if err := s.catalog.DeleteTreatment(ctx, id); err != nil {
		return catalogStoreError(err, "Treatment")
	}
	s.log.WithField("treatment_id", id).Info("Treatment removed from catalog")
	return nil
}

func (s *CatalogService) Prescriptions(ctx context.Context) ([]models.Prescription, error) {
	prescriptions, err := s.catalog.ListPrescriptions(ctx)
	if err != nil {
		return nil, storeError(err, "Prescription")
	}
	return emptyIfNil(prescriptions), nil
}

func (s *CatalogService) CreatePrescription(ctx context.Context, req models.CreatePrescriptionEntryRequest) (*models.Prescription, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	prescription := &models.Prescription{Name: strings.TrimSpace(req.Name), Type: strings.TrimSpace(req.Type)}
	if err := s.catalog.CreatePrescription(ctx, prescription); err != nil {
		return nil, catalogStoreError(err, "Prescription")
	}
	metrics.RecordCreated("catalog_prescription")
	s.log.WithField("prescription_id", prescription.ID).Info("Prescription added to catalog")
	return prescription, nil
}

// DeletePrescription refuses to remove a medication that a patient prescription still uses.
func (s *CatalogService) DeletePrescription(ctx context.Context, id uuid.UUID) error {
	inUse, err := s.catalog.PrescriptionInUse(ctx, id)
	if err != nil {
		return storeError(err, "Prescription")
	}
	if inUse {
		return conflict(CodeReferencedByRecord, "Prescription is used by a patient and cannot be deleted")
	}
	if err := s.catalog.DeletePrescription(ctx, id); err != nil {
		return catalogStoreError(err, "Prescription")
	}
	s.log.WithField("prescription_id", id).Info("Prescription removed from catalog")
	return nil
}

// Allergies returns allergy names in alphabetical order.
func (s *CatalogService) Allergies(ctx context.Context) ([]string, error) {
	allergies, err := s.catalog.ListAllergies(ctx)
	if err != nil {
		return nil, storeError(err, "Allergy")
	}
	names := make([]string, 0, len(allergies))
	for _, a := range allergies {
		names = append(names, a.Name)
	}
	return names, nil
}

func (s *CatalogService) AddAllergy(ctx context.Context, req models.NamedEntryRequest) (*models.Allergy, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	allergy := &models.Allergy{Name: strings.TrimSpace(req.Name)}
	if err := s.catalog.CreateAllergy(ctx, allergy); err != nil {
		return nil, catalogStoreError(err, "Allergy")
	}
	return allergy, nil
}

func (s *CatalogService) MedicalConditions(ctx context.Context) ([]string, error) {
	conditions, err := s.catalog.ListMedicalConditions(ctx)
	if err != nil {
		return nil, storeError(err, "Medical condition")
	}
	names := make([]string, 0, len(conditions))
	for _, c := range conditions {
		names = append(names, c.Name)
	}
	return names, nil
}

func (s *CatalogService) AddMedicalCondition(ctx context.Context, req models.NamedEntryRequest) (*models.MedicalCondition, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	condition := &models.MedicalCondition{Name: strings.TrimSpace(req.Name)}
	if err := s.catalog.CreateMedicalCondition(ctx, condition); err != nil {
		return nil, catalogStoreError(err, "Medical condition")
	}
	return condition, nil
}

func catalogStoreError(err error, kind string) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return conflict(CodeDuplicateEntry, kind+" already exists")
	case errors.Is(err, repositories.ErrReferenced):
		return conflict(CodeReferencedByRecord, kind+" is referenced by a patient record")
	}
	return storeError(err, kind)
}
