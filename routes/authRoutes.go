package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SindhuAbhirami/civic-watch/controllers"
	"github.com/SindhuAbhirami/civic-watch/middlewares"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ac.Register)
		auth.POST("/login", ac.Login)
		auth.POST("/logout", ac.Logout)
		auth.GET("/me", middlewares.AuthMiddleware(), ac.Me)
	}
}
