package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type FollowUpHandler struct {
	service *services.FollowUpService
}

func NewFollowUpHandler(service *services.FollowUpService) *FollowUpHandler {
	return &FollowUpHandler{service: service}
}

func (h *FollowUpHandler) TodaysFollowUps(c *gin.Context) {
	followUps, err := h.service.Today(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	if len(followUps) == 0 {
		middlewares.RespondJSON(c, gin.H{"followups": followUps, "message": "No followups today"}, http.StatusOK)
		return
	}
	middlewares.RespondJSON(c, gin.H{"followups": followUps}, http.StatusOK)
}

func (h *FollowUpHandler) ListFollowUps(c *gin.Context) {
	complaintID, ok := uuidParam(c, "complaint_id")
	if !ok {
		return
	}
	followUps, err := h.service.ListByComplaint(c.Request.Context(), complaintID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"followups": followUps}, http.StatusOK)
}

func (h *FollowUpHandler) CreateFollowUp(c *gin.Context) {
	var req models.CreateFollowUpRequest
	if !bindJSON(c, &req) {
		return
	}
	followUp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Followup has been saved!", "followup": followUp}, http.StatusCreated)
}

func (h *FollowUpHandler) UpdateFollowUp(c *gin.Context) {
	var req models.UpdateFollowUpRequest
	if !bindJSON(c, &req) {
		return
	}
	followUp, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Followup has been updated!", "followup": followUp}, http.StatusOK)
}
