package repositories

import (
	"DentistAPI/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BillingRepository interface {
	// FindByComplaint returns nil and no error when the complaint has no bill yet.
	FindByComplaint(ctx context.Context, complaintID uuid.UUID) (*models.Bill, error)
	// Ensure returns the complaint's bill, creating an empty one if needed.
	Ensure(ctx context.Context, complaintID uuid.UUID) (*models.Bill, error)
	AddDiscount(ctx context.Context, discount *models.Discount) error
	// RecordPayment stores the paid amount. When closeCourse is set the patient's
	// active flag is cleared in the same transaction.
	RecordPayment(ctx context.Context, billID uuid.UUID, paid int, credentialID uuid.UUID, closeCourse bool) error
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) FindByComplaint(ctx context.Context, complaintID uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		First(&bill, "complaint_id = ?", complaintID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find bill")
	}
	return &bill, nil
}

func (r *billingRepository) Ensure(ctx context.Context, complaintID uuid.UUID) (*models.Bill, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return adjustBillTotal(tx, complaintID, 0)
	})
	if err != nil {
		return nil, translateError(err, "ensure bill")
	}
	bill, err := r.FindByComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, ErrNotFound
	}
	return bill, nil
}

func (r *billingRepository) AddDiscount(ctx context.Context, discount *models.Discount) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(discount).Error
	return translateError(err, "add discount")
}

func (r *billingRepository) RecordPayment(ctx context.Context, billID uuid.UUID, paid int, credentialID uuid.UUID, closeCourse bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Bill{}).Where("id = ?", billID).Update("paid", paid)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if !closeCourse {
			return nil
		}
		return tx.Model(&models.Credential{}).Where("id = ?", credentialID).Update("active", false).Error
	})
	return translateError(err, "record payment")
}
