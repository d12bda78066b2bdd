package routes

import (
	"aquawatch-be/controllers"
	"aquawatch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// PaymentRoutes sets up the payment bridge routes. The webhook stays outside
// the auth group: the gateway authenticates it by signature instead.
func PaymentRoutes(r *gin.Engine) {
	payments := r.Group("/api/payments")
	{
		payments.POST("/webhook", controllers.HandleWebhook)

		authed := payments.Group("", middlewares.AuthMiddleware())
		{
			authed.GET("/history", controllers.GetPaymentHistory)
			authed.POST("/create-payment-intent", controllers.CreatePaymentIntent)
			authed.GET("/payment-methods", controllers.GetPaymentMethods)
			authed.POST("/payment-methods", controllers.AddPaymentMethod)
			authed.DELETE("/payment-methods/:id", controllers.RemovePaymentMethod)
		}
	}
}
