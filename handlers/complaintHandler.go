package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ComplaintHandler struct {
	service *services.ComplaintService
}

func NewComplaintHandler(service *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

func (h *ComplaintHandler) RegisterComplaint(c *gin.Context) {
	var req models.RegisterComplaintRequest
	if !bindJSON(c, &req) {
		return
	}
	complaint, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "complaint registered", "id": complaint.ID}, http.StatusCreated)
}

// TodaysComplaints lists the complaints registered today in the clinic timezone.
func (h *ComplaintHandler) TodaysComplaints(c *gin.Context) {
	complaints, err := h.service.Today(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"complaints": complaints}, http.StatusOK)
}
