package routes

import (
	"aquawatch-be/controllers"
	"aquawatch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue tracker routes; everything requires auth
func IssueRoutes(r *gin.Engine) {
	issues := r.Group("/api/issues", middlewares.AuthMiddleware())
	{
		issues.GET("", controllers.GetAllIssues)
		issues.POST("", middlewares.ReportRateLimiter(10), controllers.CreateIssue)
		issues.GET("/status/:status", controllers.GetIssuesByStatus)
		issues.GET("/priority/:priority", controllers.GetIssuesByPriority)
		issues.GET("/type/:type", controllers.GetIssuesByType)
		issues.GET("/:id", controllers.GetIssue)
		issues.PATCH("/:id/status", controllers.UpdateIssueStatus)
		issues.PATCH("/:id/assign", controllers.AssignIssue)
		issues.POST("/:id/comments", controllers.AddComment)
	}
}
