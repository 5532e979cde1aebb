package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the treatment, prescription, allergy and medical
// condition lists the clinical forms pick from.
type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListTreatments(c *gin.Context) {
	treatments, err := h.service.Treatments(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"treatments": treatments}, http.StatusOK)
}

func (h *CatalogHandler) CreateTreatment(c *gin.Context) {
	var req models.CreateTreatmentRequest
	if !bindJSON(c, &req) {
		return
	}
	treatment, err := h.service.CreateTreatment(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, treatment, http.StatusCreated)
}

func (h *CatalogHandler) DeleteTreatment(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteTreatment(c.Request.Context(), id); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Treatment has been deleted")
}

func (h *CatalogHandler) ListPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.Prescriptions(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"prescriptions": prescriptions}, http.StatusOK)
}

func (h *CatalogHandler) CreatePrescription(c *gin.Context) {
	var req models.CreatePrescriptionEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	prescription, err := h.service.CreatePrescription(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusCreated)
}

func (h *CatalogHandler) DeletePrescription(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePrescription(c.Request.Context(), id); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Prescription has been deleted")
}

func (h *CatalogHandler) ListAllergies(c *gin.Context) {
	allergies, err := h.service.Allergies(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"allergies": allergies}, http.StatusOK)
}

func (h *CatalogHandler) AddAllergy(c *gin.Context) {
	var req models.NamedEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	allergy, err := h.service.AddAllergy(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, allergy, http.StatusCreated)
}

func (h *CatalogHandler) ListMedicalConditions(c *gin.Context) {
	conditions, err := h.service.MedicalConditions(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"conditions": conditions}, http.StatusOK)
}

func (h *CatalogHandler) AddMedicalCondition(c *gin.Context) {
	var req models.NamedEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	condition, err := h.service.AddMedicalCondition(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, condition, http.StatusCreated)
}
