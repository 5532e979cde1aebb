package controllers

import (
	"DentistAPI/handlers"
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/utils"

	"github.com/gin-gonic/gin"
)

// PatientHandlers groups the handlers of the clinical record.
type PatientHandlers struct {
	Patient      *handlers.PatientHandler
	Complaint    *handlers.ComplaintHandler
	Diagnosis    *handlers.DiagnosisHandler
	FollowUp     *handlers.FollowUpHandler
	Prescription *handlers.PrescriptionHandler
	Billing      *handlers.BillingHandler
}

// SetupPatientRoutes registers the clinical record routes with their role gates.
func SetupPatientRoutes(router *gin.Engine, tokens *utils.TokenService, h PatientHandlers) {
	admin := middlewares.RequireRoles(tokens, models.RoleAdmin)
	dentist := middlewares.RequireRoles(tokens, models.RoleDentist)
	staff := middlewares.RequireRoles(tokens, models.RoleAdmin, models.RoleDentist)
	anyone := middlewares.RequireRoles(tokens)

	router.GET("/patients", staff, h.Patient.ListPatients)
	router.GET("/patients/:phonenumber", staff, h.Patient.ListByPhoneNumber)

	patient := router.Group("/patient")
	{
		patient.POST("/details", admin, h.Patient.RegisterPatient)
		patient.GET("/history", staff, h.Patient.History)

		patient.GET("/complaints", staff, h.Complaint.TodaysComplaints)
		patient.POST("/complaints", staff, h.Complaint.RegisterComplaint)

		patient.GET("/diagnosis/:complaint_id", dentist, h.Diagnosis.ListDiagnoses)
		patient.POST("/diagnosis", dentist, h.Diagnosis.CreateDiagnosis)
		patient.PUT("/diagnosis", dentist, h.Diagnosis.UpdateDiagnosis)
		patient.DELETE("/diagnosis/:id", dentist, h.Diagnosis.DeleteDiagnosis)

		patient.GET("/followup", staff, h.FollowUp.TodaysFollowUps)
		patient.GET("/followup/:complaint_id", staff, h.FollowUp.ListFollowUps)
		patient.POST("/followup", dentist, h.FollowUp.CreateFollowUp)
		patient.PUT("/followup", dentist, h.FollowUp.UpdateFollowUp)

		patient.GET("/medical_details", anyone, h.Patient.OwnMedicalDetails)
		patient.GET("/medical_details/:phonenumber/:name", dentist, h.Patient.MedicalDetails)
		patient.POST("/medical_details", dentist, h.Patient.SaveMedicalDetails)

		patient.GET("/prescription", dentist, h.Prescription.ListPrescriptions)
		patient.POST("/prescription", dentist, h.Prescription.CreatePrescription)
		patient.PUT("/prescription", dentist, h.Prescription.UpdatePrescription)
		patient.DELETE("/prescription/:id", dentist, h.Prescription.DeletePrescription)
		patient.GET("/prescription/pdf/:complaint_id/:sitting", dentist, h.Prescription.PrescriptionPDF)

		patient.GET("/bill/:complaint_id", dentist, h.Billing.GetBill)
		patient.POST("/bill", dentist, h.Billing.AddDiscount)
		patient.PUT("/bill", dentist, h.Billing.RecordPayment)
	}
}
