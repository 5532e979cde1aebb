package database

import (
	"DentistAPI/models"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultTreatmentPrice = 1000

var defaultTreatments = []string{
	"Wisdom Tooth Extraction (Impaction)",
	"Mobile/Form Extraction",
	"RCT",
	"Episectomy",
	"Temporary Filling",
	"GIC Filling",
	"Composite (Light Cure) Filling",
	"Silver Filling",
	"Nickel Chrome Metal Cap",
	"Ceramic Cap",
	"VitaCeramic Cap",
	"Cadcam Cap",
	"Zirconia Crown Cap",
	"Removable Orthodontics",
	"Fixed Appliance Orthodontics",
}

var defaultPrescriptions = []models.Prescription{
	{Name: "Sensiclave 625", Type: "Medication"},
	{Name: "Ordent", Type: "Medication"},
	{Name: "Zerodol SP", Type: "Medication"},
	{Name: "Metrogill 400", Type: "Medication"},
	{Name: "Rabemac DSR", Type: "Medication"},
	{Name: "Voveron", Type: "Injection"},
	{Name: "Vantage", Type: "Toothpaste"},
	{Name: "Senquel F", Type: "Toothpaste"},
	{Name: "Thermokind F", Type: "Toothpaste"},
	{Name: "CloveHexPlus", Type: "Mouthwash"},
	{Name: "Bitadine Gargle", Type: "Mouthwash"},
	{Name: "MetroHex", Type: "Gel"},
	{Name: "Annabelle", Type: "Gel"},
}

// SeedResult counts the catalog rows a seed run inserted.
type SeedResult struct {
	Treatments    int64
	Prescriptions int64
}

// SeedCatalog inserts the default treatments and prescriptions. Entries whose
// name already exists are left untouched, so running it twice is harmless.
func SeedCatalog(ctx context.Context, db *gorm.DB) (SeedResult, error) {
	var result SeedResult

	treatments := make([]models.Treatment, 0, len(defaultTreatments))
	for _, name := range defaultTreatments {
		treatments = append(treatments, models.Treatment{Name: name, Price: defaultTreatmentPrice})
	}
	prescriptions := make([]models.Prescription, len(defaultPrescriptions))
	copy(prescriptions, defaultPrescriptions)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&treatments)
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to seed treatments")
		}
		result.Treatments = res.RowsAffected

		res = tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&prescriptions)
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to seed prescriptions")
		}
		result.Prescriptions = res.RowsAffected
		return nil
	})
	return result, err
}
