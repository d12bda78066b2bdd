package controllers

import (
	"context"
	"net/http"
	"time"

	"aquawatch-be/config"
	"aquawatch-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func serviceCollection() *mongo.Collection {
	return config.GetCollection("waterservices")
}

type locationInput struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type waterServiceInput struct {
	Name        string        `json:"name" binding:"required,max=200"`
	Location    locationInput `json:"location" binding:"required"`
	Type        string        `json:"type" binding:"required"`
	Description string        `json:"description"`
	Capacity    *float64      `json:"capacity" binding:"required,gte=0"`
}

// GetAllWaterServices lists every registry entry
func GetAllWaterServices(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := serviceCollection().Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve water services"})
		return
	}
	defer cursor.Close(ctx)

	var services []models.WaterService
	if err := cursor.All(ctx, &services); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode water services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetWaterService retrieves a registry entry by its ID
func GetWaterService(c *gin.Context) {
	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var service models.WaterService
	err = serviceCollection().FindOne(ctx, bson.M{"_id": serviceID}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Water service not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve water service"})
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// CreateWaterService registers a new asset (admin only)
func CreateWaterService(c *gin.Context) {
	var input waterServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ServiceType(input.Type).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid service type is required"})
		return
	}

	service := models.WaterService{
		ID:           primitive.NewObjectID(),
		Name:         input.Name,
		Location:     models.NewGeoPoint(*input.Location.Latitude, *input.Location.Longitude),
		Type:         models.ServiceType(input.Type),
		Description:  input.Description,
		Capacity:     *input.Capacity,
		CurrentUsage: 0,
		Status:       models.Operational,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := serviceCollection().InsertOne(ctx, service); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create water service"})
		return
	}

	c.JSON(http.StatusCreated, service)
}

// UpdateWaterService replaces the editable fields of an asset (admin only)
func UpdateWaterService(c *gin.Context) {
	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var input waterServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ServiceType(input.Type).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid service type is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"name":        input.Name,
		"location":    models.NewGeoPoint(*input.Location.Latitude, *input.Location.Longitude),
		"type":        models.ServiceType(input.Type),
		"description": input.Description,
		"capacity":    *input.Capacity,
		"updatedAt":   time.Now(),
	}

	result := serviceCollection().FindOneAndUpdate(ctx,
		bson.M{"_id": serviceID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var service models.WaterService
	if err := result.Decode(&service); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Water service not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update water service"})
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteWaterService removes an asset from the registry (admin only)
func DeleteWaterService(c *gin.Context) {
	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := serviceCollection().DeleteOne(ctx, bson.M{"_id": serviceID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete water service"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Water service not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Water service deleted successfully"})
}

// GetWaterServiceStatus returns the operational snapshot, including the
// derived usage percentage and maintenance-due flag.
func GetWaterServiceStatus(c *gin.Context) {
	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var service models.WaterService
	err = serviceCollection().FindOne(ctx, bson.M{"_id": serviceID}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Water service not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           service.Status,
		"lastMaintenance":  service.LastMaintenance,
		"nextMaintenance":  service.NextMaintenance,
		"capacity":         service.Capacity,
		"currentUsage":     service.CurrentUsage,
		"usagePercentage":  service.UsagePercentage(),
		"needsMaintenance": service.NeedsMaintenance(),
	})
}

// UpdateWaterServiceStatus patches status and current usage (admin only)
func UpdateWaterServiceStatus(c *gin.Context) {
	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var input struct {
		Status       string   `json:"status" binding:"required"`
		CurrentUsage *float64 `json:"currentUsage" binding:"required,gte=0"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ServiceStatus(input.Status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := serviceCollection().FindOneAndUpdate(ctx,
		bson.M{"_id": serviceID},
		bson.M{"$set": bson.M{
			"status":       models.ServiceStatus(input.Status),
			"currentUsage": *input.CurrentUsage,
			"updatedAt":    time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var service models.WaterService
	if err := result.Decode(&service); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Water service not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service status"})
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// LogMaintenance appends a maintenance record and resets the 30-day window
// (admin only)
func LogMaintenance(c *gin.Context) {
	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	performedBy, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Description string `json:"description" binding:"required,max=1000"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var service models.WaterService
	err = serviceCollection().FindOne(ctx, bson.M{"_id": serviceID}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Water service not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve water service"})
		}
		return
	}

	service.LogMaintenance(input.Description, performedBy, time.Now())

	_, err = serviceCollection().UpdateOne(ctx, bson.M{"_id": serviceID}, bson.M{
		"$set": bson.M{
			"lastMaintenance":    service.LastMaintenance,
			"nextMaintenance":    service.NextMaintenance,
			"maintenanceHistory": service.MaintenanceHistory,
			"updatedAt":          time.Now(),
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log maintenance"})
		return
	}

	c.JSON(http.StatusOK, service)
}
