package middlewares

import (
	"DentistAPI/services"
	"DentistAPI/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
)

const genericErrorMessage = "Something went wrong, try again later"

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// RespondError maps err onto a status code and writes {"error": message}.
// Validation failures carry their field errors under "fields".
func RespondError(c *gin.Context, err error) {
	log := Logger(c)

	var serr *services.ServiceError
	if errors.As(err, &serr) {
		status := statusForKind(serr.Kind)
		body := gin.H{"error": serr.Message}

		var fields validation.Errors
		if errors.As(serr, &fields) {
			body["fields"] = fields
		}

		entry := log.WithFields(logrus.Fields{"status": status, "code": serr.Code})
		if status >= http.StatusInternalServerError {
			entry.WithError(serr.Err).Error(serr.Message)
		} else {
			entry.Debug(serr.Message)
		}
		c.JSON(status, body)
		return
	}

	if isAuthError(err) {
		log.WithError(err).Debug("Request rejected by authorization gate")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	log.WithError(err).Error("Unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
}

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindAuth, services.KindPrivilege:
		return http.StatusUnauthorized
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func isAuthError(err error) bool {
	for _, target := range []error{
		utils.ErrUnauthenticated,
		utils.ErrInvalidHeader,
		utils.ErrInvalidToken,
		utils.ErrMissingClaims,
		utils.ErrExpired,
		utils.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
