package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SindhuAbhirami/civic-watch/controllers"
	"github.com/SindhuAbhirami/civic-watch/middlewares"
)

func UserRoutes(r *gin.Engine, uc *controllers.UserController) {
	users := r.Group("/api/users", middlewares.AuthMiddleware())
	{
		users.PUT("/me", uc.UpdateProfile)
		users.PUT("/me/password", uc.ChangePassword)
		users.GET("/:role/:id", uc.GetProfile)
	}
}
