package controllers

import (
	"DentistAPI/database"
	"DentistAPI/metrics"
	"DentistAPI/middlewares"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// rootHandler handles requests to the root path
func rootHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the dental clinic API!")
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), db); err != nil {
			middlewares.Logger(c).WithError(err).Error("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			metrics.RecordDBStats(sqlDB.Stats())
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// SetupRootRoute sets up the public service routes
func SetupRootRoute(router *gin.Engine, db *gorm.DB) {
	router.GET("/", rootHandler)
	router.GET("/healthz", healthHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
