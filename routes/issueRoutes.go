package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SindhuAbhirami/civic-watch/config"
	"github.com/SindhuAbhirami/civic-watch/controllers"
	"github.com/SindhuAbhirami/civic-watch/middlewares"
	"github.com/SindhuAbhirami/civic-watch/models"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, rdb *redis.Client, s config.Settings) {
	citizen := []gin.HandlerFunc{middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleCitizen)}
	official := []gin.HandlerFunc{middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleOfficial)}

	issue := r.Group("/api/issues")
	{
		issue.GET("", ic.GetAllIssues)
		issue.POST("", append(citizen,
			middlewares.IssueRateLimiter(rdb, s.IssueLimitPrefix, s.IssueDailyLimit),
			ic.CreateIssue)...)
		issue.GET("/mine", append(citizen, ic.GetMyIssues)...)
		issue.GET("/queue", append(official, ic.GetOfficialQueue)...)
		issue.GET("/handled", append(official, ic.GetHandledIssues)...)
		issue.GET("/:id", ic.GetIssue)
		issue.POST("/:id/accept", append(official, ic.AcceptIssue)...)
		issue.POST("/:id/fix", append(official, ic.FixIssue)...)
	}
}
