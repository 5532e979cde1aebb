package repositories

import (
	"DentistAPI/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrescriptionUpdate carries the editable fields of a patient prescription.
type PrescriptionUpdate struct {
	Dosage       string
	DurationDays int
	Instructions string
}

// PatientPrescriptionRepository persists medications prescribed per sitting.
// Reads preload the catalog prescription.
type PatientPrescriptionRepository interface {
	Create(ctx context.Context, prescription *models.PatientPrescription) error
	// FindByID returns nil and no error when the record does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.PatientPrescription, error)
	Update(ctx context.Context, id uuid.UUID, update PrescriptionUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.PatientPrescription, error)
	ListBySitting(ctx context.Context, complaintID uuid.UUID, sitting int) ([]models.PatientPrescription, error)
}

type patientPrescriptionRepository struct {
	db *gorm.DB
}

func NewPatientPrescriptionRepository(db *gorm.DB) PatientPrescriptionRepository {
	return &patientPrescriptionRepository{db: db}
}

func (r *patientPrescriptionRepository) Create(ctx context.Context, prescription *models.PatientPrescription) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(prescription).Error
	return translateError(err, "create patient prescription")
}

func (r *patientPrescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PatientPrescription, error) {
	var prescription models.PatientPrescription
	err := r.db.WithContext(ctx).Preload("Prescription").First(&prescription, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find patient prescription")
	}
	return &prescription, nil
}

func (r *patientPrescriptionRepository) Update(ctx context.Context, id uuid.UUID, update PrescriptionUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.PatientPrescription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"dosage":        update.Dosage,
			"duration_days": update.DurationDays,
			"instructions":  update.Instructions,
		})
	if result.Error != nil {
		return translateError(result.Error, "update patient prescription")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientPrescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PatientPrescription{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete patient prescription")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientPrescriptionRepository) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.PatientPrescription, error) {
	var prescriptions []models.PatientPrescription
	err := r.db.WithContext(ctx).
		Preload("Prescription").
		Where("complaint_id = ?", complaintID).
		Order("sitting, created_at").
		Find(&prescriptions).Error
	return prescriptions, translateError(err, "list patient prescriptions")
}

func (r *patientPrescriptionRepository) ListBySitting(ctx context.Context, complaintID uuid.UUID, sitting int) ([]models.PatientPrescription, error) {
	var prescriptions []models.PatientPrescription
	err := r.db.WithContext(ctx).
		Preload("Prescription").
		Where("complaint_id = ? AND sitting = ?", complaintID, sitting).
		Order("created_at").
		Find(&prescriptions).Error
	return prescriptions, translateError(err, "list sitting prescriptions")
}
