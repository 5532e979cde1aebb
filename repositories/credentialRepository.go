package repositories

import (
	"DentistAPI/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialRepository persists identity records.
type CredentialRepository interface {
	// FindByIdentity returns nil and no error when no credential matches.
	FindByIdentity(ctx context.Context, phoneNumber int64, name string) (*models.Credential, error)
	Create(ctx context.Context, credential *models.Credential) error
	// SetInitialPassword stores the hash only while no password is set and
	// reports whether it did.
	SetInitialPassword(ctx context.Context, id uuid.UUID, hashedPassword string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	UpdatePhoneNumber(ctx context.Context, id uuid.UUID, phoneNumber int64) error
}

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) FindByIdentity(ctx context.Context, phoneNumber int64, name string) (*models.Credential, error) {
	var credential models.Credential
	err := r.db.WithContext(ctx).
		Where("phonenumber = ? AND name = ?", phoneNumber, name).
		First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find credential")
	}
	return &credential, nil
}

func (r *credentialRepository) Create(ctx context.Context, credential *models.Credential) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(credential).Error
	return translateError(err, "create credential")
}

func (r *credentialRepository) SetInitialPassword(ctx context.Context, id uuid.UUID, hashedPassword string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Credential{}).
		Where("id = ? AND password = ''", id).
		Update("password", hashedPassword)
	if result.Error != nil {
		return false, translateError(result.Error, "set initial password")
	}
	return result.RowsAffected == 1, nil
}

func (r *credentialRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.updateColumn(ctx, id, "password", hashedPassword)
}

func (r *credentialRepository) UpdatePhoneNumber(ctx context.Context, id uuid.UUID, phoneNumber int64) error {
	return r.updateColumn(ctx, id, "phonenumber", phoneNumber)
}

func (r *credentialRepository) updateColumn(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Credential{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return translateError(result.Error, "update credential "+column)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
