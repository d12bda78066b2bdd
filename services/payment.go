package services

import "context"

// Webhook event types the bridge reacts to; everything else is ignored.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentIntent is the gateway-neutral view of a payment attempt.
type PaymentIntent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Created      int64  `json:"created"`
}

// PaymentMethod is the gateway-neutral view of a saved card.
type PaymentMethod struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	CardBrand string `json:"cardBrand,omitempty"`
	CardLast4 string `json:"cardLast4,omitempty"`
}

// WebhookEvent is a verified inbound gateway notification.
type WebhookEvent struct {
	Type       string
	IntentID   string
	CustomerID string
}

// PaymentGateway is the narrow façade over the hosted payment processor.
// Amounts are in minor units (cents). Handlers depend on this interface so
// tests can substitute a stub.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	CreateIntent(ctx context.Context, amount int64, currency, customerID, userID string) (PaymentIntent, error)
	ListIntents(ctx context.Context, customerID string, limit int64) ([]PaymentIntent, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	VerifyWebhook(payload []byte, signature string) (WebhookEvent, error)
}

// allowed payment currencies
var validCurrencies = map[string]bool{
	"usd": true,
	"eur": true,
	"gbp": true,
}

// ValidCurrency reports whether the currency is on the allow-list.
func ValidCurrency(currency string) bool {
	return validCurrencies[currency]
}
