package repositories

import (
	"DentistAPI/cache"
	"DentistAPI/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	treatmentsCacheKey    = "catalog:treatments"
	prescriptionsCacheKey = "catalog:prescriptions"
	allergiesCacheKey     = "catalog:allergies"
	conditionsCacheKey    = "catalog:medical_conditions"
)

// CatalogRepository manages reference data. Lists are read through the cache
// and every write invalidates the affected list.
type CatalogRepository interface {
	ListTreatments(ctx context.Context) ([]models.Treatment, error)
	// FindTreatment returns nil and no error when the treatment does not exist.
	FindTreatment(ctx context.Context, id uuid.UUID) (*models.Treatment, error)
	CreateTreatment(ctx context.Context, treatment *models.Treatment) error
	TreatmentInUse(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteTreatment(ctx context.Context, id uuid.UUID) error

	ListPrescriptions(ctx context.Context) ([]models.Prescription, error)
	// FindPrescription returns nil and no error when the prescription does not exist.
	FindPrescription(ctx context.Context, id uuid.UUID) (*models.Prescription, error)
	CreatePrescription(ctx context.Context, prescription *models.Prescription) error
	PrescriptionInUse(ctx context.Context, id uuid.UUID) (bool, error)
	DeletePrescription(ctx context.Context, id uuid.UUID) error

	ListAllergies(ctx context.Context) ([]models.Allergy, error)
	CreateAllergy(ctx context.Context, allergy *models.Allergy) error
	ListMedicalConditions(ctx context.Context) ([]models.MedicalCondition, error)
	CreateMedicalCondition(ctx context.Context, condition *models.MedicalCondition) error
}

type catalogRepository struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
	log   *logrus.Logger
}

func NewCatalogRepository(db *gorm.DB, store cache.Store, ttl time.Duration, log *logrus.Logger) CatalogRepository {
	if store == nil {
		store = cache.Noop{}
	}
	return &catalogRepository{db: db, cache: store, ttl: ttl, log: log}
}

func (r *catalogRepository) ListTreatments(ctx context.Context) ([]models.Treatment, error) {
	var treatments []models.Treatment
	err := r.readThrough(ctx, treatmentsCacheKey, &treatments, func() error {
		return r.db.WithContext(ctx).Order("name").Find(&treatments).Error
	})
	return treatments, translateError(err, "list treatments")
}

func (r *catalogRepository) FindTreatment(ctx context.Context, id uuid.UUID) (*models.Treatment, error) {
	var treatment models.Treatment
	if err := r.db.WithContext(ctx).First(&treatment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find treatment")
	}
	return &treatment, nil
}

func (r *catalogRepository) CreateTreatment(ctx context.Context, treatment *models.Treatment) error {
	if err := r.db.WithContext(ctx).Create(treatment).Error; err != nil {
		return translateError(err, "create treatment")
	}
	r.invalidate(ctx, treatmentsCacheKey)
	return nil
}

func (r *catalogRepository) TreatmentInUse(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.referenced(ctx, &models.Diagnosis{}, "treatment_id", id)
}

func (r *catalogRepository) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	if err := r.delete(ctx, &models.Treatment{}, id); err != nil {
		return err
	}
	r.invalidate(ctx, treatmentsCacheKey)
	return nil
}

func (r *catalogRepository) ListPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.readThrough(ctx, prescriptionsCacheKey, &prescriptions, func() error {
		return r.db.WithContext(ctx).Order("name").Find(&prescriptions).Error
	})
	return prescriptions, translateError(err, "list prescriptions")
}

func (r *catalogRepository) FindPrescription(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := r.db.WithContext(ctx).First(&prescription, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "find prescription")
	}
	return &prescription, nil
}

func (r *catalogRepository) CreatePrescription(ctx context.Context, prescription *models.Prescription) error {
	if err := r.db.WithContext(ctx).Create(prescription).Error; err != nil {
		return translateError(err, "create prescription")
	}
	r.invalidate(ctx, prescriptionsCacheKey)
	return nil
}

func (r *catalogRepository) PrescriptionInUse(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.referenced(ctx, &models.PatientPrescription{}, "prescription_id", id)
}

func (r *catalogRepository) DeletePrescription(ctx context.Context, id uuid.UUID) error {
	if err := r.delete(ctx, &models.Prescription{}, id); err != nil {
		return err
	}
	r.invalidate(ctx, prescriptionsCacheKey)
	return nil
}

func (r *catalogRepository) ListAllergies(ctx context.Context) ([]models.Allergy, error) {
	var allergies []models.Allergy
	err := r.readThrough(ctx, allergiesCacheKey, &allergies, func() error {
		return r.db.WithContext(ctx).Order("name").Find(&allergies).Error
	})
	return allergies, translateError(err, "list allergies")
}

func (r *catalogRepository) CreateAllergy(ctx context.Context, allergy *models.Allergy) error {
	if err := r.db.WithContext(ctx).Create(allergy).Error; err != nil {
		return translateError(err, "create allergy")
	}
	r.invalidate(ctx, allergiesCacheKey)
	return nil
}

func (r *catalogRepository) ListMedicalConditions(ctx context.Context) ([]models.MedicalCondition, error) {
	var conditions []models.MedicalCondition
	err := r.readThrough(ctx, conditionsCacheKey, &conditions, func() error {
		return r.db.WithContext(ctx).Order("name").Find(&conditions).Error
	})
	return conditions, translateError(err, "list medical conditions")
}

func (r *catalogRepository) CreateMedicalCondition(ctx context.Context, condition *models.MedicalCondition) error {
	if err := r.db.WithContext(ctx).Create(condition).Error; err != nil {
		return translateError(err, "create medical condition")
	}
	r.invalidate(ctx, conditionsCacheKey)
	return nil
}

// readThrough fills dst from the cache, or runs load and caches its result.
// Cache failures are logged and never fail the read.
func (r *catalogRepository) readThrough(ctx context.Context, key string, dst interface{}, load func() error) error {
	hit, err := cache.GetJSON(ctx, r.cache, key, dst)
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("Failed to read catalog from cache")
	}
	if hit {
		return nil
	}

	if err := load(); err != nil {
		return err
	}
	if err := cache.SetJSON(ctx, r.cache, key, dst, r.ttl); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("Failed to cache catalog")
	}
	return nil
}

func (r *catalogRepository) invalidate(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("Failed to invalidate catalog cache")
	}
}

func (r *catalogRepository) referenced(ctx context.Context, model interface{}, column string, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where(column+" = ?", id).Count(&count).Error
	if err != nil {
		return false, translateError(err, "count references")
	}
	return count > 0, nil
}

// delete relies on RESTRICT foreign keys, so a referenced row surfaces as ErrReferenced.
func (r *catalogRepository) delete(ctx context.Context, model interface{}, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete catalog entry")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
