package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"pguncle/internal/logger"
	"pguncle/internal/models"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

type stripeIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway creates a PaymentIntent per order. The intent id doubles as
// the order id.
type StripeGateway struct {
	intents stripeIntents
	log     *logger.Logger
}

func NewStripeGateway(secretKey string, log *logger.Logger) (*StripeGateway, error) {
	if secretKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(secretKey, nil)
	if sc == nil {
		log.Error("STRIPE", "Failed to initialize Stripe client")
		return nil, ErrStripeClientInitFailed
	}

	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeGateway{intents: sc.PaymentIntents, log: log}, nil
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateOrder(ctx context.Context, params models.OrderParams) (models.GatewayOrder, error) {
	metadata := map[string]string{"receipt": params.Receipt}
	for k, v := range params.Notes {
		metadata[k] = fmt.Sprint(v)
	}

	piParams := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(params.AmountMinor),
		Currency:           stripe.String(strings.ToLower(params.Currency)),
		Description:        stripe.String(params.Receipt),
		Metadata:           metadata,
		PaymentMethodTypes: []*string{stripe.String("card")},
	}

	g.log.LogPayment("STRIPE", params.Receipt, "Creating payment intent")
	pi, err := g.intents.New(piParams)
	if err != nil {
		g.log.Error("STRIPE", fmt.Sprintf("Failed to create payment intent: %v", err))
		return nil, err
	}
	g.log.LogPayment("STRIPE", params.Receipt, fmt.Sprintf("Payment intent created: %s", pi.ID))

	return models.GatewayOrder{
		"id":            pi.ID,
		"entity":        "payment_intent",
		"amount":        pi.Amount,
		"currency":      strings.ToUpper(string(pi.Currency)),
		"receipt":       params.Receipt,
		"status":        string(pi.Status),
		"client_secret": pi.ClientSecret,
		"created_at":    pi.Created,
	}, nil
}
