package controllers

import (
	"DentistAPI/handlers"
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
	tokens  *utils.TokenService
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler, tokens *utils.TokenService) *AuthController {
	return &AuthController{
		Handler: authHandler,
		tokens:  tokens,
	}
}

// RegisterRoutes initializes all credential routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/signup", ac.Handler.Signup)
	router.POST("/login", ac.Handler.Login)

	// Staff routes: the handler checks the caller may manage the target
	staff := router.Group("/").Use(middlewares.RequireRoles(ac.tokens, models.RoleAdmin, models.RoleDentist))
	{
		staff.POST("/password", ac.Handler.ResetPassword)
		staff.POST("/phonenumber", ac.Handler.ChangePhoneNumber)
	}
}
