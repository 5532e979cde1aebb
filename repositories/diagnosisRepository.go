package repositories

import (
	"DentistAPI/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DiagnosisRepository persists diagnoses. Every write also moves the complaint's
// bill total by the treatment price, inside the same transaction.
type DiagnosisRepository interface {
	ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.Diagnosis, error)
	// FindByID returns nil and no error when the diagnosis does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Diagnosis, error)
	Create(ctx context.Context, diagnosis *models.Diagnosis, price int) error
	UpdateTreatment(ctx context.Context, diagnosis *models.Diagnosis, treatmentID uuid.UUID, priceDelta int) error
	Delete(ctx context.Context, diagnosis *models.Diagnosis, price int) error
}

type diagnosisRepository struct {
	db *gorm.DB
}

func NewDiagnosisRepository(db *gorm.DB) DiagnosisRepository {
	return &diagnosisRepository{db: db}
}

func (r *diagnosisRepository) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.Diagnosis, error) {
	var diagnoses []models.Diagnosis
	err := r.db.WithContext(ctx).
		Preload("Treatment").
		Where("complaint_id = ?", complaintID).
		Order("tooth_number").
		Find(&diagnoses).Error
	return diagnoses, translateError(err, "list diagnoses")
}

func (r *diagnosisRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Diagnosis, error) {
	var diagnosis models.Diagnosis
	err := r.db.WithContext(ctx).Preload("Treatment").First(&diagnosis, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find diagnosis")
	}
	return &diagnosis, nil
}

func (r *diagnosisRepository) Create(ctx context.Context, diagnosis *models.Diagnosis, price int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(diagnosis).Error; err != nil {
			return err
		}
		return adjustBillTotal(tx, diagnosis.ComplaintID, price)
	})
	return translateError(err, "create diagnosis")
}

func (r *diagnosisRepository) UpdateTreatment(ctx context.Context, diagnosis *models.Diagnosis, treatmentID uuid.UUID, priceDelta int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Diagnosis{}).Where("id = ?", diagnosis.ID).Update("treatment_id", treatmentID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return adjustBillTotal(tx, diagnosis.ComplaintID, priceDelta)
	})
	if err == nil {
		diagnosis.TreatmentID = treatmentID
	}
	return translateError(err, "update diagnosis")
}

func (r *diagnosisRepository) Delete(ctx context.Context, diagnosis *models.Diagnosis, price int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Diagnosis{}, "id = ?", diagnosis.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return adjustBillTotal(tx, diagnosis.ComplaintID, -price)
	})
	return translateError(err, "delete diagnosis")
}

// adjustBillTotal creates the complaint's bill on first use and moves its total by delta, never below zero.
// A positive delta reopens the patient's course of treatment.
func adjustBillTotal(tx *gorm.DB, complaintID uuid.UUID, delta int) error {
	bill := models.Bill{ComplaintID: complaintID}
	if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "complaint_id"}}, DoNothing: true}).
		Omit(clause.Associations).Create(&bill).Error; err != nil {
		return err
	}
	if delta == 0 {
		return nil
	}
	if err := tx.Model(&models.Bill{}).
		Where("complaint_id = ?", complaintID).
		Update("total", gorm.Expr("GREATEST(total + ?, 0)", delta)).Error; err != nil {
		return err
	}
	if delta < 0 {
		return nil
	}
	return tx.Model(&models.Credential{}).
		Where("id = (?)", tx.Model(&models.Complaint{}).Select("credential_id").Where("id = ?", complaintID)).
		Update("active", true).Error
}
