package services

import (
	"context"
	"encoding/json"
	"os"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway implements PaymentGateway against the hosted Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway reads STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET.
func NewStripeGateway() *StripeGateway {
	api := &client.API{}
	api.Init(os.Getenv("STRIPE_SECRET_KEY"), nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency, customerID, userID string) (PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return PaymentIntent{}, err
	}
	return PaymentIntent{
		ID:           intent.ID,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		Status:       string(intent.Status),
		ClientSecret: intent.ClientSecret,
		Created:      intent.Created,
	}, nil
}

func (g *StripeGateway) ListIntents(ctx context.Context, customerID string, limit int64) ([]PaymentIntent, error) {
	params := &stripe.PaymentIntentListParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	var intents []PaymentIntent
	iter := g.api.PaymentIntents.List(params)
	for iter.Next() {
		pi := iter.PaymentIntent()
		intents = append(intents, PaymentIntent{
			ID:       pi.ID,
			Amount:   pi.Amount,
			Currency: string(pi.Currency),
			Status:   string(pi.Status),
			Created:  pi.Created,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return intents, nil
}

func (g *StripeGateway) ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String("card"),
	}
	params.Context = ctx

	var methods []PaymentMethod
	iter := g.api.PaymentMethods.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		method := PaymentMethod{
			ID:   pm.ID,
			Type: string(pm.Type),
		}
		if pm.Card != nil {
			method.CardBrand = string(pm.Card.Brand)
			method.CardLast4 = pm.Card.Last4
		}
		methods = append(methods, method)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return methods, nil
}

func (g *StripeGateway) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	attachParams := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	attachParams.Context = ctx
	if _, err := g.api.PaymentMethods.Attach(paymentMethodID, attachParams); err != nil {
		return err
	}

	// Set as default payment method
	updateParams := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	updateParams.Context = ctx
	_, err := g.api.Customers.Update(customerID, updateParams)
	return err
}

func (g *StripeGateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx
	_, err := g.api.PaymentMethods.Detach(paymentMethodID, params)
	return err
}

// VerifyWebhook rejects any payload whose signature does not match the
// shared secret before the event body is trusted.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return WebhookEvent{}, err
	}

	var object struct {
		ID       string `json:"id"`
		Customer string `json:"customer"`
	}
	if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
		return WebhookEvent{}, err
	}

	return WebhookEvent{
		Type:       string(event.Type),
		IntentID:   object.ID,
		CustomerID: object.Customer,
	}, nil
}
