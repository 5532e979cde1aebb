package database

import (
	"DentistAPI/config"
	"DentistAPI/models"
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens the database connection, configures the pool and verifies it.
func OpenDB(ctx context.Context, cfg config.DBConfig, log *logrus.Logger, verbose bool) (*gorm.DB, error) {
	logMode := logger.Silent
	if verbose {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		Logger:                                   logger.Default.LogMode(logMode),
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := configureConnectionPool(db, cfg); err != nil {
		return nil, err
	}
	if err := Ping(ctx, db); err != nil {
		return nil, err
	}

	log.Info("Database connection established")
	return db, nil
}

// InitDB opens the database and brings the schema up to date.
func InitDB(ctx context.Context, cfg config.DBConfig, log *logrus.Logger, verbose bool) (*gorm.DB, error) {
	db, err := OpenDB(ctx, cfg, log, verbose)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	log.Info("Database initialized successfully")
	return db, nil
}

func configureConnectionPool(db *gorm.DB, cfg config.DBConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return nil
}

// Ping verifies that the database connection is functional.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// RunMigrations creates or updates every table. Order follows foreign keys.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Treatment{},
		&models.Prescription{},
		&models.Allergy{},
		&models.MedicalCondition{},
		&models.Credential{},
		&models.PatientDetails{},
		&models.Complaint{},
		&models.Diagnosis{},
		&models.FollowUp{},
		&models.Bill{},
		&models.Discount{},
		&models.PatientPrescription{},
	)
	return errors.Wrap(err, "failed to run migrations")
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	return sqlDB.Close()
}
