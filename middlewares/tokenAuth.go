package middlewares

import (
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/utils"
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// contextKey defines a custom context key type to store the caller's claims in the context.
type contextKey string

const claimsKey contextKey = "claims"

var errNoClaims = errors.New("token claims not found in context")

// RequireRoles verifies the bearer token and admits callers whose role is one
// of roles. With no roles any valid token is admitted.
func RequireRoles(tokens *utils.TokenService, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			metrics.RecordAuthorizationDecision(false)
			RespondError(c, err)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(token, roles...)
		if err != nil {
			metrics.RecordAuthorizationDecision(false)
			RespondError(c, err)
			c.Abort()
			return
		}
		metrics.RecordAuthorizationDecision(true)

		// Add the claims to the request context for the handlers.
		ctx := context.WithValue(c.Request.Context(), claimsKey, claims)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", utils.ErrUnauthenticated
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", utils.ErrInvalidHeader
	}
	return token, nil
}

// ExtractClaims retrieves the verified token claims from the context.
func ExtractClaims(ctx context.Context) (*utils.TokenClaims, error) {
	claims, ok := ctx.Value(claimsKey).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, errNoClaims
	}
	return claims, nil
}
