package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	service *services.BillingService
}

func NewBillingHandler(service *services.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

func (h *BillingHandler) GetBill(c *gin.Context) {
	complaintID, ok := uuidParam(c, "complaint_id")
	if !ok {
		return
	}
	bill, err := h.service.Get(c.Request.Context(), complaintID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"bill": bill}, http.StatusOK)
}

func (h *BillingHandler) AddDiscount(c *gin.Context) {
	var req models.AddDiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	bill, err := h.service.AddDiscount(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Discount has been added", "bill": bill}, http.StatusCreated)
}

// RecordPayment stores the amount paid so far. A settled bill closes the
// patient's course of treatment.
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	bill, err := h.service.RecordPayment(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Payment has been recorded", "bill": bill}, http.StatusOK)
}
