package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	StatusCreated  PaymentStatus = "created"
	StatusCaptured PaymentStatus = "captured"
	StatusFailed   PaymentStatus = "failed"
)

// PaymentRecord is the relational row kept for every gateway order.
type PaymentRecord struct {
	bun.BaseModel `bun:"table:payment_records"`

	OrderID   string        `json:"orderId" bun:"order_id,pk"`
	PaymentID string        `json:"paymentId,omitempty" bun:"payment_id"`
	Provider  string        `json:"provider" bun:"provider"`
	Amount    int64         `json:"amount" bun:"amount"`
	Currency  string        `json:"currency" bun:"currency"`
	Receipt   string        `json:"receipt" bun:"receipt"`
	Status    PaymentStatus `json:"status" bun:"status"`
	CreatedAt time.Time     `json:"createdAt" bun:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bun:"updated_at"`
}

// CreateOrderRequest is the POST /payments/create-order body. Amount is in
// major units (rupees); it is converted to minor units before submission.
type CreateOrderRequest struct {
	Amount   *float64               `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Notes    map[string]interface{} `json:"notes"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// OrderParams is what a gateway receives.
type OrderParams struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]interface{}
}

// GatewayOrder is the gateway's order object, passed through verbatim.
type GatewayOrder map[string]interface{}

// ID returns the gateway order id, if present.
func (o GatewayOrder) ID() string {
	id, _ := o["id"].(string)
	return id
}

type VerifiedPayment struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
}
