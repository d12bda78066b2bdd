package controllers

import (
	"context"
	"log"
	"math"
	"net/http"
	"time"

	"aquawatch-be/models"
	"aquawatch-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var gateway services.PaymentGateway

// InitPaymentGateway wires the payment processor façade
func InitPaymentGateway(g services.PaymentGateway) {
	gateway = g
}

func currentUser(c *gin.Context, ctx context.Context) (*models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	objectID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return nil, false
	}

	var user models.User
	if err := userCollection().FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

// ensureCustomer lazily provisions the gateway-side customer record
func ensureCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	customerID, err := gateway.CreateCustomer(ctx, user.Email, user.ID.Hex())
	if err != nil {
		return "", err
	}

	_, err = userCollection().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"stripeCustomerId": customerID, "updatedAt": time.Now()},
	})
	if err != nil {
		return "", err
	}

	user.StripeCustomerID = customerID
	return customerID, nil
}

// GetPaymentHistory lists the user's recent payment intents
func GetPaymentHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(c, ctx)
	if !ok {
		return
	}

	if user.StripeCustomerID == "" {
		c.JSON(http.StatusOK, []services.PaymentIntent{})
		return
	}

	intents, err := gateway.ListIntents(ctx, user.StripeCustomerID, 10)
	if err != nil {
		log.Println("Error fetching payment history:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if intents == nil {
		intents = []services.PaymentIntent{}
	}

	c.JSON(http.StatusOK, intents)
}

// CreatePaymentIntent creates a gateway payment intent for the caller
func CreatePaymentIntent(c *gin.Context) {
	var input struct {
		Amount   *float64 `json:"amount" binding:"required,gte=0"`
		Currency string   `json:"currency" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !services.ValidCurrency(input.Currency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid currency is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(c, ctx)
	if !ok {
		return
	}

	customerID, err := ensureCustomer(ctx, user)
	if err != nil {
		log.Println("Error creating customer:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	// Convert to minor units
	amount := int64(math.Round(*input.Amount * 100))

	intent, err := gateway.CreateIntent(ctx, amount, input.Currency, customerID, user.ID.Hex())
	if err != nil {
		log.Println("Error creating payment intent:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

// GetPaymentMethods lists the user's saved cards
func GetPaymentMethods(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(c, ctx)
	if !ok {
		return
	}

	if user.StripeCustomerID == "" {
		c.JSON(http.StatusOK, []services.PaymentMethod{})
		return
	}

	methods, err := gateway.ListPaymentMethods(ctx, user.StripeCustomerID)
	if err != nil {
		log.Println("Error fetching payment methods:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if methods == nil {
		methods = []services.PaymentMethod{}
	}

	c.JSON(http.StatusOK, methods)
}

// AddPaymentMethod attaches a card to the user's gateway customer record
func AddPaymentMethod(c *gin.Context) {
	var input struct {
		PaymentMethodID string `json:"paymentMethodId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(c, ctx)
	if !ok {
		return
	}

	customerID, err := ensureCustomer(ctx, user)
	if err != nil {
		log.Println("Error creating customer:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if err := gateway.AttachPaymentMethod(ctx, customerID, input.PaymentMethodID); err != nil {
		log.Println("Error adding payment method:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment method added successfully"})
}

// RemovePaymentMethod detaches a card
func RemovePaymentMethod(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, ok := currentUser(c, ctx); !ok {
		return
	}

	if err := gateway.DetachPaymentMethod(ctx, c.Param("id")); err != nil {
		log.Println("Error removing payment method:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment method removed successfully"})
}

// HandleWebhook verifies the gateway signature before trusting the event
// body, then dispatches on event type
func HandleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := gateway.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Println("Webhook signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch event.Type {
	case services.EventPaymentSucceeded:
		_, err := userCollection().UpdateOne(ctx,
			bson.M{"stripeCustomerId": event.CustomerID},
			bson.M{"$push": bson.M{"paymentHistory": event.IntentID}},
		)
		if err != nil {
			log.Println("Error recording payment:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
	case services.EventPaymentFailed:
		log.Println("Payment failed:", event.IntentID)
	default:
		log.Printf("Unhandled event type %s", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
