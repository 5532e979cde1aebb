package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// bindJSON decodes the body into dst and answers 400 when it cannot.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middlewares.RespondError(c, &services.ServiceError{
			Kind:    services.KindValidation,
			Code:    services.CodeInvalidInput,
			Message: "Invalid request body",
			Err:     err,
		})
		return false
	}
	return true
}

// uuidParam reads a UUID path parameter and answers 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middlewares.RespondError(c, invalidParam(name))
		return uuid.Nil, false
	}
	return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		middlewares.RespondError(c, invalidParam(name))
		return 0, false
	}
	return n, true
}

func phoneNumberParam(c *gin.Context, value, name string) (int64, bool) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		middlewares.RespondError(c, &services.ServiceError{
			Kind:    services.KindValidation,
			Code:    services.CodeInvalidPhoneFormat,
			Message: name + " must contain digits only",
		})
		return 0, false
	}
	return n, true
}

func invalidParam(name string) *services.ServiceError {
	return &services.ServiceError{Kind: services.KindValidation, Code: services.CodeInvalidInput, Message: "Invalid " + name}
}

func respondMessage(c *gin.Context, status int, message string) {
	middlewares.RespondJSON(c, gin.H{"message": message}, status)
}

func respondCreated(c *gin.Context, message string) {
	respondMessage(c, http.StatusCreated, message)
}
