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

// FollowUpUpdate carries the fields a dentist may change after a sitting.
type FollowUpUpdate struct {
	Description string
	Date        time.Time
	Time        string
	Completed   *bool
}

type FollowUpRepository interface {
	Create(ctx context.Context, followUp *models.FollowUp) error
	// FindByID returns nil and no error when the follow-up does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.FollowUp, error)
	ExistsNumber(ctx context.Context, complaintID uuid.UUID, number int) (bool, error)
	Update(ctx context.Context, id uuid.UUID, update FollowUpUpdate) error
	ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.FollowUp, error)
	// ListByDate preloads the complaint's patient and details.
	ListByDate(ctx context.Context, date time.Time) ([]models.FollowUp, error)
}

type followUpRepository struct {
	db *gorm.DB
}

func NewFollowUpRepository(db *gorm.DB) FollowUpRepository {
	return &followUpRepository{db: db}
}

func (r *followUpRepository) Create(ctx context.Context, followUp *models.FollowUp) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(followUp).Error
	return translateError(err, "create followup")
}

func (r *followUpRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.FollowUp, error) {
	var followUp models.FollowUp
	err := r.db.WithContext(ctx).First(&followUp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find followup")
	}
	return &followUp, nil
}

func (r *followUpRepository) ExistsNumber(ctx context.Context, complaintID uuid.UUID, number int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FollowUp{}).
		Where("complaint_id = ? AND number = ?", complaintID, number).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "count followups")
	}
	return count > 0, nil
}

func (r *followUpRepository) Update(ctx context.Context, id uuid.UUID, update FollowUpUpdate) error {
	fields := map[string]interface{}{
		"description": update.Description,
		"date":        update.Date,
		"time":        update.Time,
	}
	if update.Completed != nil {
		fields["completed"] = *update.Completed
	}

	result := r.db.WithContext(ctx).Model(&models.FollowUp{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translateError(result.Error, "update followup")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followUpRepository) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.FollowUp, error) {
	var followUps []models.FollowUp
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("number").
		Find(&followUps).Error
	return followUps, translateError(err, "list followups")
}

func (r *followUpRepository) ListByDate(ctx context.Context, date time.Time) ([]models.FollowUp, error) {
	var followUps []models.FollowUp
	err := r.db.WithContext(ctx).
		Preload("Complaint.Credential.Details").
		Where("date = ?", date.Format("2006-01-02")).
		Order("time").
		Find(&followUps).Error
	return followUps, translateError(err, "list followups by date")
}
