package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DiagnosisHandler struct {
	service *services.DiagnosisService
}

func NewDiagnosisHandler(service *services.DiagnosisService) *DiagnosisHandler {
	return &DiagnosisHandler{service: service}
}

func (h *DiagnosisHandler) ListDiagnoses(c *gin.Context) {
	complaintID, ok := uuidParam(c, "complaint_id")
	if !ok {
		return
	}
	diagnoses, err := h.service.ListByComplaint(c.Request.Context(), complaintID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"diagnosis": diagnoses}, http.StatusOK)
}

func (h *DiagnosisHandler) CreateDiagnosis(c *gin.Context) {
	var req models.CreateDiagnosisRequest
	if !bindJSON(c, &req) {
		return
	}
	diagnosis, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Diagnosis has been saved!", "diagnosis": diagnosis}, http.StatusCreated)
}

func (h *DiagnosisHandler) UpdateDiagnosis(c *gin.Context) {
	var req models.UpdateDiagnosisRequest
	if !bindJSON(c, &req) {
		return
	}
	diagnosis, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Diagnosis has been updated!", "diagnosis": diagnosis}, http.StatusOK)
}

func (h *DiagnosisHandler) DeleteDiagnosis(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	message, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, message)
}
