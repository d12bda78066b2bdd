package routes

import (
	"aquawatch-be/controllers"
	"aquawatch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password/:token", controllers.ResetPassword)
		auth.GET("/me", middlewares.AuthMiddleware(), controllers.Me)
	}
}
