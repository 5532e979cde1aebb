package repositories

import (
	"DentistAPI/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComplaintRepository persists complaints. Reads preload the patient and their details.
type ComplaintRepository interface {
	// Create inserts the complaint and marks its patient active in one transaction.
	Create(ctx context.Context, complaint *models.Complaint) error
	// FindByID returns nil and no error when the complaint does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	ListRegisteredBetween(ctx context.Context, from, to time.Time) ([]models.Complaint, error)
	ListByCredential(ctx context.Context, credentialID uuid.UUID) ([]models.Complaint, error)
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(complaint).Error; err != nil {
			return err
		}
		return tx.Model(&models.Credential{}).
			Where("id = ?", complaint.CredentialID).
			Update("active", true).Error
	})
	return translateError(err, "create complaint")
}

func (r *complaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.withPatient(ctx).First(&complaint, "complaints.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find complaint")
	}
	return &complaint, nil
}

func (r *complaintRepository) ListRegisteredBetween(ctx context.Context, from, to time.Time) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.withPatient(ctx).
		Where("registered_at >= ? AND registered_at < ?", from, to).
		Order("registered_at").
		Find(&complaints).Error
	return complaints, translateError(err, "list complaints")
}

func (r *complaintRepository) ListByCredential(ctx context.Context, credentialID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.withPatient(ctx).
		Where("credential_id = ?", credentialID).
		Order("registered_at DESC").
		Find(&complaints).Error
	return complaints, translateError(err, "list patient complaints")
}

func (r *complaintRepository) withPatient(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Credential.Details")
}
