package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"aquawatch-be/config"
	"aquawatch-be/controllers"
	"aquawatch-be/models"
	"aquawatch-be/routes"
	"aquawatch-be/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// recoveryHandler guarantees every unhandled failure still yields JSON.
// Provider error text is only exposed in development mode.
func recoveryHandler(c *gin.Context, err interface{}) {
	response := gin.H{"message": "Something went wrong!"}
	if os.Getenv("GO_ENV") == "development" {
		response["error"] = fmt.Sprint(err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, response)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}

	if err := models.EnsureUserIndexes(config.GetCollection("users")); err != nil {
		log.Println("Failed to create user indexes:", err)
	}
	if err := models.EnsureWaterServiceIndexes(config.GetCollection("waterservices")); err != nil {
		log.Println("Failed to create water service indexes:", err)
	}

	// Rate limiting is active only when Redis is configured
	if os.Getenv("REDIS_ADDRESS") != "" {
		config.ConnectRedis()
	}

	controllers.InitMailer(services.NewSMTPMailer())
	controllers.InitPaymentGateway(services.NewStripeGateway())

	r := gin.New()
	r.Use(gin.Logger(), gin.CustomRecovery(recoveryHandler))
	r.Use(cors.Default())

	routes.AuthRoutes(r)
	routes.WaterServiceRoutes(r)
	routes.IssueRoutes(r)
	routes.PaymentRoutes(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Static assets and uploaded photos share the API's origin
	r.Static("/js", "./client/js")
	r.Static("/css", "./client/css")
	r.Static(controllers.PhotoRoutePrefix, controllers.UploadDir())
	r.StaticFile("/", "./client/index.html")
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File("./client/index.html")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
