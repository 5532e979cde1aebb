package repositories

import (
	"DentistAPI/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PatientFilter narrows patient listings. Empty fields match everything.
type PatientFilter struct {
	NamePrefix string
	ActiveOnly bool
}

// MedicalDetails are the mutable medical fields of PatientDetails.
type MedicalDetails struct {
	Allergies string
	Illnesses string
	Smoking   bool
	Drinking  bool
	Tobacco   bool
}

// PatientRepository reads and writes patient credentials together with their details.
type PatientRepository interface {
	// CreateWithDetails inserts the credential and its details in one transaction.
	CreateWithDetails(ctx context.Context, credential *models.Credential, details *models.PatientDetails) error
	// FindByIdentity returns nil and no error when the patient does not exist.
	FindByIdentity(ctx context.Context, phoneNumber int64, name string) (*models.Credential, error)
	ListByPhoneNumber(ctx context.Context, phoneNumber int64) ([]models.Credential, error)
	List(ctx context.Context, filter PatientFilter) ([]models.Credential, error)
	UpdateMedicalDetails(ctx context.Context, credentialID uuid.UUID, details MedicalDetails) error
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) CreateWithDetails(ctx context.Context, credential *models.Credential, details *models.PatientDetails) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(credential).Error; err != nil {
			return err
		}
		details.CredentialID = credential.ID
		return tx.Create(details).Error
	})
	return translateError(err, "create patient")
}

func (r *patientRepository) FindByIdentity(ctx context.Context, phoneNumber int64, name string) (*models.Credential, error) {
	var credential models.Credential
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("phonenumber = ? AND name = ? AND role = ?", phoneNumber, name, models.RolePatient).
		First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find patient")
	}
	return &credential, nil
}

func (r *patientRepository) ListByPhoneNumber(ctx context.Context, phoneNumber int64) ([]models.Credential, error) {
	var patients []models.Credential
	err := r.patients(ctx).
		Where("phonenumber = ?", phoneNumber).
		Order("name").
		Find(&patients).Error
	return patients, translateError(err, "list patients by phonenumber")
}

func (r *patientRepository) List(ctx context.Context, filter PatientFilter) ([]models.Credential, error) {
	query := r.patients(ctx)
	if filter.NamePrefix != "" {
		query = query.Where("name LIKE ?", escapeLike(filter.NamePrefix)+"%")
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	var patients []models.Credential
	err := query.Order("name").Find(&patients).Error
	return patients, translateError(err, "list patients")
}

func (r *patientRepository) UpdateMedicalDetails(ctx context.Context, credentialID uuid.UUID, details MedicalDetails) error {
	result := r.db.WithContext(ctx).Model(&models.PatientDetails{}).
		Where("credential_id = ?", credentialID).
		Updates(map[string]interface{}{
			"allergies": details.Allergies,
			"illnesses": details.Illnesses,
			"smoking":   details.Smoking,
			"drinking":  details.Drinking,
			"tobacco":   details.Tobacco,
		})
	if result.Error != nil {
		return translateError(result.Error, "update medical details")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepository) patients(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Details").Where("role = ?", models.RolePatient)
}
