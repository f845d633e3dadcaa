package services

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"pguncle/internal/logger"
	"pguncle/internal/models"
)

type razorpayOrders interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway creates orders through the Razorpay Orders API.
type RazorpayGateway struct {
	orders razorpayOrders
	log    *logger.Logger
}

func NewRazorpayGateway(keyID, keySecret string, log *logger.Logger) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	log.Info("RAZORPAY", "Razorpay client initialized successfully")
	return &RazorpayGateway{orders: client.Order, log: log}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

func (g *RazorpayGateway) CreateOrder(ctx context.Context, params models.OrderParams) (models.GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   params.AmountMinor,
		"currency": params.Currency,
		"receipt":  params.Receipt,
	}
	if len(params.Notes) > 0 {
		data["notes"] = params.Notes
	}

	body, err := g.orders.Create(data, nil)
	if err != nil {
		g.log.Error("RAZORPAY", fmt.Sprintf("Failed to create order for receipt %s: %v", params.Receipt, err))
		return nil, err
	}
	return models.GatewayOrder(body), nil
}
