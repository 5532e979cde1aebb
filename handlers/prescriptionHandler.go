package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/services"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PrescriptionHandler struct {
	service *services.PrescriptionService
}

func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

// ListPrescriptions requires the complaint_id query parameter; sitting narrows
// the list to one visit.
func (h *PrescriptionHandler) ListPrescriptions(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Query("complaint_id"))
	if err != nil {
		middlewares.RespondError(c, invalidParam("complaint_id"))
		return
	}

	var sitting *int
	if raw := c.Query("sitting"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middlewares.RespondError(c, invalidParam("sitting"))
			return
		}
		sitting = &n
	}

	prescriptions, err := h.service.List(c.Request.Context(), complaintID, sitting)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"prescriptions": prescriptions}, http.StatusOK)
}

func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var req models.CreatePrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	prescription, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Prescription has been saved!", "prescription": prescription}, http.StatusCreated)
}

func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	var req models.UpdatePrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	prescription, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Prescription has been updated!", "prescription": prescription}, http.StatusOK)
}

func (h *PrescriptionHandler) DeletePrescription(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Prescription has been deleted")
}

// PrescriptionPDF streams the printable prescription of one sitting.
func (h *PrescriptionHandler) PrescriptionPDF(c *gin.Context) {
	complaintID, ok := uuidParam(c, "complaint_id")
	if !ok {
		return
	}
	sitting, ok := intParam(c, "sitting")
	if !ok {
		return
	}
	doc, err := h.service.Document(c.Request.Context(), complaintID, sitting)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}
