package main

import (
	"DentistAPI/database"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"DentistAPI/services"
	"DentistAPI/utils"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			db, err := database.InitDB(cmd.Context(), cfg.DB, log, cfg.IsDevelopment())
			if err != nil {
				return err
			}
			return database.Close(db)
		},
	}
}

// createStaffCmd bootstraps admin and dentist accounts. No HTTP route creates them.
func createStaffCmd() *cobra.Command {
	var (
		phoneNumber int64
		name        string
		role        string
		password    string
	)

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create an admin or dentist credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			db, err := database.InitDB(cmd.Context(), cfg.DB, log, false)
			if err != nil {
				return err
			}
			defer database.Close(db)

			tokens, err := utils.NewTokenService(cfg.JWT.Key, cfg.JWT.TTL)
			if err != nil {
				return err
			}
			auth := services.NewAuthService(repositories.NewCredentialRepository(db), tokens, utils.NewPasswordHasher(cfg.Bcrypt), log)

			credential, err := auth.CreateStaff(cmd.Context(), phoneNumber, name, models.Role(role), password)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"credential_id": credential.ID, "role": credential.Role}).Info("Staff credential created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%d)\n", credential.Role, credential.Name, credential.PhoneNumber)
			return nil
		},
	}

	cmd.Flags().Int64Var(&phoneNumber, "phonenumber", 0, "10 digit phone number")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&role, "role", string(models.RoleDentist), "admin or dentist")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	for _, flag := range []string{"phonenumber", "name", "password"} {
		cobra.CheckErr(cmd.MarkFlagRequired(flag))
	}
	return cmd
}

func seedCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-catalog",
		Short: "Insert the default treatments and prescriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			db, err := database.InitDB(cmd.Context(), cfg.DB, log, false)
			if err != nil {
				return err
			}
			defer database.Close(db)

			result, err := database.SeedCatalog(cmd.Context(), db)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"treatments":    result.Treatments,
				"prescriptions": result.Prescriptions,
			}).Info("Catalog seeded")
			return nil
		},
	}
}
