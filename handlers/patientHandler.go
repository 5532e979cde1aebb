package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/services"
	"DentistAPI/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// RegisterPatient creates the credential and details of a new patient.
func (h *PatientHandler) RegisterPatient(c *gin.Context) {
	var req models.RegisterPatientRequest
	if !bindJSON(c, &req) {
		return
	}
	patient, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Patient registered", "patient": patient}, http.StatusCreated)
}

// ListPatients accepts the optional query parameters name (prefix) and active.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			middlewares.RespondError(c, invalidParam("active"))
			return
		}
		activeOnly = v
	}
	patients, err := h.service.List(c.Request.Context(), c.Query("name"), activeOnly)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"patients": patients}, http.StatusOK)
}

func (h *PatientHandler) ListByPhoneNumber(c *gin.Context) {
	phoneNumber, ok := phoneNumberParam(c, c.Param("phonenumber"), "phonenumber")
	if !ok {
		return
	}
	patients, err := h.service.ListByPhoneNumber(c.Request.Context(), phoneNumber)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"patients": patients}, http.StatusOK)
}

func (h *PatientHandler) History(c *gin.Context) {
	phoneNumber, ok := phoneNumberParam(c, c.Query("phonenumber"), "phonenumber")
	if !ok {
		return
	}
	history, err := h.service.History(c.Request.Context(), phoneNumber, c.Query("name"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"complaints": history}, http.StatusOK)
}

// OwnMedicalDetails answers with the medical details of the token's owner.
func (h *PatientHandler) OwnMedicalDetails(c *gin.Context) {
	claims, err := middlewares.ExtractClaims(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	h.respondMedicalDetails(c, claims.PhoneNumber, claims.Name)
}

// MedicalDetails takes the patient's name as a lower snake case path segment.
func (h *PatientHandler) MedicalDetails(c *gin.Context) {
	phoneNumber, ok := phoneNumberParam(c, c.Param("phonenumber"), "phonenumber")
	if !ok {
		return
	}
	h.respondMedicalDetails(c, phoneNumber, utils.CapitalizeSnakeName(c.Param("name")))
}

func (h *PatientHandler) respondMedicalDetails(c *gin.Context, phoneNumber int64, name string) {
	details, err := h.service.MedicalDetails(c.Request.Context(), phoneNumber, name)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"medical_details": details}, http.StatusOK)
}

func (h *PatientHandler) SaveMedicalDetails(c *gin.Context) {
	var req models.MedicalDetailsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.SaveMedicalDetails(c.Request.Context(), req); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	respondCreated(c, "Medical details saved")
}
