package controllers

import (
	"context"
	"log"
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

// nearest asset is looked up within this radius, in meters
const nearestServiceRadius = 5000

func issueCollection() *mongo.Collection {
	return config.GetCollection("issues")
}

// userSummary resolves a user reference into a display-friendly map
func userSummary(ctx context.Context, id primitive.ObjectID) map[string]interface{} {
	summary := map[string]interface{}{
		"id": id,
	}

	var user models.User
	if err := userCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err == nil {
		summary["name"] = user.Name
		summary["email"] = user.Email
	}

	return summary
}

// serviceSummary resolves a water-service reference into a display-friendly map
func serviceSummary(ctx context.Context, id primitive.ObjectID) map[string]interface{} {
	summary := map[string]interface{}{
		"id": id,
	}

	var service models.WaterService
	if err := serviceCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&service); err == nil {
		summary["name"] = service.Name
		summary["type"] = service.Type
	}

	return summary
}

// issueResponse expands the issue's user and service references. Comment
// authors are only expanded for single-issue reads.
func issueResponse(ctx context.Context, issue models.Issue, expandComments bool) gin.H {
	response := gin.H{
		"id":          issue.ID,
		"title":       issue.Title,
		"description": issue.Description,
		"location":    issue.Location,
		"type":        issue.Type,
		"priority":    issue.Priority,
		"status":      issue.Status,
		"reportedBy":  userSummary(ctx, issue.ReportedBy),
		"photos":      issue.Photos,
		"comments":    issue.Comments,
		"resolution":  issue.Resolution,
		"createdAt":   issue.CreatedAt,
		"updatedAt":   issue.UpdatedAt,
	}

	if issue.AssignedTo != nil {
		response["assignedTo"] = userSummary(ctx, *issue.AssignedTo)
	}
	if issue.WaterService != nil {
		response["waterService"] = serviceSummary(ctx, *issue.WaterService)
	}

	if expandComments {
		comments := make([]gin.H, 0, len(issue.Comments))
		for _, comment := range issue.Comments {
			comments = append(comments, gin.H{
				"text":      comment.Text,
				"user":      userSummary(ctx, comment.User),
				"createdAt": comment.CreatedAt,
			})
		}
		response["comments"] = comments
	}

	return response
}

// CreateIssue handles a new citizen report, attaching the nearest water
// service within 5km when one exists
func CreateIssue(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reportedBy, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Title       string   `form:"title" json:"title" binding:"required,max=200"`
		Description string   `form:"description" json:"description" binding:"required,max=1000"`
		Type        string   `form:"type" json:"type" binding:"required"`
		Priority    string   `form:"priority" json:"priority"`
		Latitude    *float64 `form:"latitude" json:"latitude" binding:"required"`
		Longitude   *float64 `form:"longitude" json:"longitude" binding:"required"`
	}

	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Enumerate every violated field, not just the first
	var fieldErrors []string
	if !models.IssueType(input.Type).Valid() {
		fieldErrors = append(fieldErrors, "Valid issue type is required")
	}
	priority := models.Medium
	if input.Priority != "" {
		if !models.IssuePriority(input.Priority).Valid() {
			fieldErrors = append(fieldErrors, "Valid priority is required")
		} else {
			priority = models.IssuePriority(input.Priority)
		}
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	var photos []models.Photo
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["photos"]
		if len(files) > maxPhotos {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 5 photos allowed"})
			return
		}
		for _, file := range files {
			if err := validatePhoto(file); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		photos, err = savePhotos(c, files)
		if err != nil {
			log.Println("Error saving photos:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photos"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Location:    models.NewGeoPoint(*input.Latitude, *input.Longitude),
		Type:        models.IssueType(input.Type),
		Priority:    priority,
		Status:      models.Reported,
		ReportedBy:  reportedBy,
		Photos:      photos,
		Comments:    []models.Comment{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	// Attach the nearest service; finding none is not an error
	nearby, err := models.FindNearby(ctx, serviceCollection(), *input.Latitude, *input.Longitude, nearestServiceRadius)
	if err != nil {
		log.Println("Error querying nearby services:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}
	if len(nearby) > 0 {
		issue.WaterService = &nearby[0].ID
	}

	if _, err := issueCollection().InsertOne(ctx, issue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	// Back-reference on the service record
	if issue.WaterService != nil {
		if _, err := serviceCollection().UpdateOne(ctx,
			bson.M{"_id": *issue.WaterService},
			bson.M{"$push": bson.M{"issues": issue.ID}},
		); err != nil {
			log.Println("Error linking issue to water service:", err)
		}
	}

	c.JSON(http.StatusCreated, issue)
}

func findIssues(c *gin.Context, filter bson.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := issueCollection().Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	response := make([]gin.H, 0, len(issues))
	for _, issue := range issues {
		response = append(response, issueResponse(ctx, issue, false))
	}

	c.JSON(http.StatusOK, response)
}

// GetAllIssues lists every issue, newest first
func GetAllIssues(c *gin.Context) {
	findIssues(c, bson.M{})
}

// GetIssuesByStatus filters by exact status value
func GetIssuesByStatus(c *gin.Context) {
	findIssues(c, bson.M{"status": c.Param("status")})
}

// GetIssuesByPriority filters by exact priority value
func GetIssuesByPriority(c *gin.Context) {
	findIssues(c, bson.M{"priority": c.Param("priority")})
}

// GetIssuesByType filters by exact issue type
func GetIssuesByType(c *gin.Context) {
	findIssues(c, bson.M{"type": c.Param("type")})
}

// GetIssue retrieves an issue by its ID with comment authors expanded
func GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection().FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issueResponse(ctx, issue, true))
}

// UpdateIssueStatus sets the status directly. Entering resolved stamps the
// resolution record with the acting user.
func UpdateIssueStatus(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	actor, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Status                string `json:"status" binding:"required"`
		ResolutionDescription string `json:"resolutionDescription"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.IssueStatus(input.Status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection().FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	issue.SetStatus(models.IssueStatus(input.Status), actor, time.Now())
	if input.ResolutionDescription != "" && issue.Resolution != nil {
		issue.Resolution.Description = input.ResolutionDescription
	}

	update := bson.M{
		"status":    issue.Status,
		"updatedAt": issue.UpdatedAt,
	}
	if issue.Resolution != nil {
		update["resolution"] = issue.Resolution
	}

	if _, err := issueCollection().UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue status"})
		return
	}

	c.JSON(http.StatusOK, issueResponse(ctx, issue, true))
}

// AddComment appends to the issue's comment log without touching status
func AddComment(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	author, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Text string `json:"text" binding:"required,max=1000"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection().FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	issue.AddComment(author, input.Text, time.Now())

	_, err = issueCollection().UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{
		"$push": bson.M{"comments": issue.Comments[len(issue.Comments)-1]},
		"$set":  bson.M{"updatedAt": issue.UpdatedAt},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusOK, issueResponse(ctx, issue, true))
}

// AssignIssue sets the assignee and forces status to assigned, whatever the
// issue was in before
func AssignIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		AssignedTo string `json:"assignedTo" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignee, err := primitive.ObjectIDFromHex(input.AssignedTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection().FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	issue.AssignTo(assignee, time.Now())

	_, err = issueCollection().UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{
		"$set": bson.M{
			"assignedTo": issue.AssignedTo,
			"status":     issue.Status,
			"updatedAt":  issue.UpdatedAt,
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign issue"})
		return
	}

	c.JSON(http.StatusOK, issueResponse(ctx, issue, true))
}
