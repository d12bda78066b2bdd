package controllers

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"aquawatch-be/config"
	"aquawatch-be/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// stubGateway substitutes the hosted processor in tests
type stubGateway struct {
	event     services.WebhookEvent
	verifyErr error
}

func (s *stubGateway) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	return "cus_test", nil
}

func (s *stubGateway) CreateIntent(ctx context.Context, amount int64, currency, customerID, userID string) (services.PaymentIntent, error) {
	return services.PaymentIntent{ID: "pi_test", Amount: amount, Currency: currency}, nil
}

func (s *stubGateway) ListIntents(ctx context.Context, customerID string, limit int64) ([]services.PaymentIntent, error) {
	return nil, nil
}

func (s *stubGateway) ListPaymentMethods(ctx context.Context, customerID string) ([]services.PaymentMethod, error) {
	return nil, nil
}

func (s *stubGateway) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	return nil
}

func (s *stubGateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	return nil
}

func (s *stubGateway) VerifyWebhook(payload []byte, signature string) (services.WebhookEvent, error) {
	if s.verifyErr != nil {
		return services.WebhookEvent{}, s.verifyErr
	}
	return s.event, nil
}

func webhookContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/payments/webhook", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Stripe-Signature", "t=1,v1=abc")
	return c, w
}

func TestCreatePaymentIntentRejectsBadCurrency(t *testing.T) {
	InitPaymentGateway(&stubGateway{})

	c, w := jsonContext(t, "POST", "/api/payments/create-payment-intent", map[string]interface{}{
		"amount":   12.5,
		"currency": "jpy",
	})

	CreatePaymentIntent(c)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Valid currency is required")
}

func TestCreatePaymentIntentRejectsNegativeAmount(t *testing.T) {
	InitPaymentGateway(&stubGateway{})

	c, w := jsonContext(t, "POST", "/api/payments/create-payment-intent", map[string]interface{}{
		"amount":   -5,
		"currency": "usd",
	})

	CreatePaymentIntent(c)

	assert.Equal(t, 400, w.Code)
}

func TestGetPaymentHistoryReturnsEmptyArray(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("customer with no intents", func(mt *mtest.T) {
		config.UseDatabase(mt.DB)
		InitPaymentGateway(&stubGateway{})

		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "jordan@example.com"},
			{Key: "stripeCustomerId", Value: "cus_test"},
		}))

		c, w := jsonContext(mt.T, "GET", "/api/payments/history", nil)

		GetPaymentHistory(c)

		assert.Equal(mt, 200, w.Code)
		assert.JSONEq(mt, "[]", w.Body.String(), "no history is an empty list, never null")
	})
}

func TestWebhookRejectsBadSignatureBeforeTrustingBody(t *testing.T) {
	InitPaymentGateway(&stubGateway{verifyErr: errors.New("signature mismatch")})

	c, w := webhookContext(t, `{"type":"payment_intent.succeeded"}`)

	HandleWebhook(c)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "signature verification failed")
}

func TestWebhookLogsFailedPayments(t *testing.T) {
	InitPaymentGateway(&stubGateway{event: services.WebhookEvent{
		Type:     services.EventPaymentFailed,
		IntentID: "pi_failed",
	}})

	c, w := webhookContext(t, `{}`)

	HandleWebhook(c)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "received")
}

func TestWebhookIgnoresUnhandledEventTypes(t *testing.T) {
	InitPaymentGateway(&stubGateway{event: services.WebhookEvent{
		Type: "customer.created",
	}})

	c, w := webhookContext(t, `{}`)

	HandleWebhook(c)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "received")
}
