package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup sets the first password of a patient registered by the front desk.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.CredentialRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Signup successful!", "token": token}, http.StatusCreated)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.CredentialRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"token": token}, http.StatusOK)
}

// ResetPassword clears a credential's password so its owner can sign up again.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	claims, err := middlewares.ExtractClaims(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), req, claims.Role); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Password has been reset")
}

func (h *AuthHandler) ChangePhoneNumber(c *gin.Context) {
	claims, err := middlewares.ExtractClaims(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	var req models.ChangePhoneNumberRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ChangePhoneNumber(c.Request.Context(), req, claims.Role); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Phonenumber has been changed")
}
