package controllers

import (
	"DentistAPI/handlers"
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/utils"

	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes registers the reference list routes. Staff read the
// treatment and prescription catalogs, only admins change them.
func SetupCatalogRoutes(router *gin.Engine, tokens *utils.TokenService, h *handlers.CatalogHandler) {
	admin := middlewares.RequireRoles(tokens, models.RoleAdmin)
	staff := middlewares.RequireRoles(tokens, models.RoleAdmin, models.RoleDentist)
	anyone := middlewares.RequireRoles(tokens)

	doctor := router.Group("/doctor")
	{
		doctor.GET("/treatment", staff, h.ListTreatments)
		doctor.POST("/treatment", admin, h.CreateTreatment)
		doctor.DELETE("/treatment/:id", admin, h.DeleteTreatment)

		doctor.GET("/prescription", staff, h.ListPrescriptions)
		doctor.POST("/prescription", admin, h.CreatePrescription)
		doctor.DELETE("/prescription/:id", admin, h.DeletePrescription)
	}

	user := router.Group("/user")
	{
		user.GET("/allergies", anyone, h.ListAllergies)
		user.POST("/allergies", admin, h.AddAllergy)
		user.GET("/medical_conditions", anyone, h.ListMedicalConditions)
		user.POST("/medical_conditions", admin, h.AddMedicalCondition)
	}
}
