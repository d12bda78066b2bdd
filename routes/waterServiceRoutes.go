package routes

import (
	"aquawatch-be/controllers"
	"aquawatch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// WaterServiceRoutes sets up the registry routes; mutations are admin-gated
func WaterServiceRoutes(r *gin.Engine) {
	services := r.Group("/api/water-services")
	{
		services.GET("", controllers.GetAllWaterServices)
		services.GET("/:id", controllers.GetWaterService)
		services.GET("/:id/status", controllers.GetWaterServiceStatus)

		admin := services.Group("", middlewares.AuthMiddleware(), middlewares.RequireAdmin())
		{
			admin.POST("", controllers.CreateWaterService)
			admin.PUT("/:id", controllers.UpdateWaterService)
			admin.DELETE("/:id", controllers.DeleteWaterService)
			admin.PATCH("/:id/status", controllers.UpdateWaterServiceStatus)
			admin.POST("/:id/maintenance", controllers.LogMaintenance)
		}
	}
}
