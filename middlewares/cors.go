package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CorsConfig holds CORS configuration settings.
type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
}

// NewCorsConfig returns the API's CORS policy for the given origins. "*" allows
// any origin, in which case credentials are never allowed.
func NewCorsConfig(origins []string) *CorsConfig {
	return &CorsConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", requestIDHeader},
		AllowCredentials: !hasWildcard(origins),
	}
}

// CorsMiddleware creates a CORS middleware based on the provided configuration.
func CorsMiddleware(config *CorsConfig) gin.HandlerFunc {
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	exposed := strings.Join(config.ExposedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			switch matchOrigin(config.AllowedOrigins, origin) {
			case exactOrigin:
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if config.AllowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
			case anyOrigin:
				c.Header("Access-Control-Allow-Origin", "*")
			}
		}

		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		if exposed != "" {
			c.Header("Access-Control-Expose-Headers", exposed)
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "deny")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type originMatch int

const (
	noOrigin originMatch = iota
	anyOrigin
	exactOrigin
)

// matchOrigin prefers an exact entry over the wildcard so listed origins keep credentials.
func matchOrigin(allowed []string, origin string) originMatch {
	match := noOrigin
	for _, item := range allowed {
		switch item {
		case origin:
			return exactOrigin
		case "*":
			match = anyOrigin
		}
	}
	return match
}

func hasWildcard(origins []string) bool {
	for _, item := range origins {
		if item == "*" {
			return true
		}
	}
	return false
}
