package routes

import (
	"DentistAPI/cache"
	"DentistAPI/config"
	"DentistAPI/controllers"
	"DentistAPI/handlers"
	"DentistAPI/middlewares"
	"DentistAPI/repositories"
	"DentistAPI/services"
	"DentistAPI/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cfg *config.AppConfig, db *gorm.DB, store cache.Store, log *logrus.Logger) (http.Handler, error) {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := utils.NewTokenService(cfg.JWT.Key, cfg.JWT.TTL)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Apply logging middleware first so every later rejection is logged with its request ID
	router.Use(middlewares.LoggingMiddleware(log))
	router.Use(middlewares.MetricsMiddleware())
	router.Use(middlewares.CorsMiddleware(middlewares.NewCorsConfig(cfg.HTTP.AllowedOrigins)))
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: cfg.HTTP.RateLimitRPS,
		Burst:             cfg.HTTP.RateLimitBurst,
	}))

	// Initialize repositories, services, and handlers
	credentialRepo := repositories.NewCredentialRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	complaintRepo := repositories.NewComplaintRepository(db)
	diagnosisRepo := repositories.NewDiagnosisRepository(db)
	followUpRepo := repositories.NewFollowUpRepository(db)
	billingRepo := repositories.NewBillingRepository(db)
	prescriptionRepo := repositories.NewPatientPrescriptionRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db, store, cfg.Catalog.CacheTTL, log)

	clock := utils.NewClock(cfg.Clinic.Location)

	authService := services.NewAuthService(credentialRepo, tokens, utils.NewPasswordHasher(cfg.Bcrypt), log)
	patientService := services.NewPatientService(patientRepo, complaintRepo, diagnosisRepo, followUpRepo, billingRepo, clock, log)
	complaintService := services.NewComplaintService(patientRepo, complaintRepo, clock, log)
	diagnosisService := services.NewDiagnosisService(complaintRepo, diagnosisRepo, catalogRepo, log)
	followUpService := services.NewFollowUpService(complaintRepo, followUpRepo, clock, log)
	prescriptionService := services.NewPrescriptionService(complaintRepo, followUpRepo, prescriptionRepo, catalogRepo, cfg.Clinic, clock, log)
	billingService := services.NewBillingService(complaintRepo, billingRepo, log)
	catalogService := services.NewCatalogService(catalogRepo, log)

	// Register routes
	authController := controllers.NewAuthController(handlers.NewAuthHandler(authService), tokens)
	authController.RegisterRoutes(router)

	controllers.SetupPatientRoutes(router, tokens, controllers.PatientHandlers{
		Patient:      handlers.NewPatientHandler(patientService),
		Complaint:    handlers.NewComplaintHandler(complaintService),
		Diagnosis:    handlers.NewDiagnosisHandler(diagnosisService),
		FollowUp:     handlers.NewFollowUpHandler(followUpService),
		Prescription: handlers.NewPrescriptionHandler(prescriptionService),
		Billing:      handlers.NewBillingHandler(billingService),
	})
	controllers.SetupCatalogRoutes(router, tokens, handlers.NewCatalogHandler(catalogService))
	controllers.SetupRootRoute(router, db)

	return router, nil
}
