package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/storage"
	"pguncle/internal/utils"
)

// Gateway creates orders with a hosted payment provider.
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, params models.OrderParams) (models.GatewayOrder, error)
}

// PaymentService creates gateway orders and verifies the checkout signature
// the gateway hands back to the browser.
type PaymentService struct {
	gateway         Gateway
	signingSecret   string
	defaultCurrency string
	records         storage.RelationalStore
	events          EventPublisher
	instanceID      string
	log             *logger.Logger
	now             func() time.Time
}

type PaymentConfig struct {
	// Gateway is nil when no provider credentials are configured.
	Gateway         Gateway
	SigningSecret   string
	DefaultCurrency string
}

func NewPaymentService(cfg PaymentConfig, records storage.RelationalStore, events EventPublisher, instanceID string, log *logger.Logger) *PaymentService {
	currency := cfg.DefaultCurrency
	if currency == "" {
		currency = "INR"
	}
	return &PaymentService{
		gateway:         cfg.Gateway,
		signingSecret:   cfg.SigningSecret,
		defaultCurrency: currency,
		records:         records,
		events:          events,
		instanceID:      instanceID,
		log:             log,
		now:             time.Now,
	}
}

// ToMinorUnits converts a major-unit amount (rupees) to paise.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *PaymentService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.GatewayOrder, error) {
	if s.gateway == nil {
		s.log.Warn("PAYMENT", "Create order rejected: gateway credentials not configured")
		return nil, newError(ErrNotConfigured, "Payment gateway not configured")
	}
	if req.Amount == nil || math.IsNaN(*req.Amount) || *req.Amount <= 0 {
		return nil, newError(ErrValidation, "amount must be greater than 0")
	}

	params := models.OrderParams{
		AmountMinor: ToMinorUnits(*req.Amount),
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Receipt:     strings.TrimSpace(req.Receipt),
		Notes:       req.Notes,
	}
	if params.AmountMinor <= 0 {
		return nil, newError(ErrValidation, "amount must be greater than 0")
	}
	if params.Currency == "" {
		params.Currency = s.defaultCurrency
	}
	if params.Receipt == "" {
		params.Receipt = utils.GenerateReceiptID(s.now())
	}

	s.log.LogPayment("CREATE_ORDER", params.Receipt, fmt.Sprintf("Creating %s order for %d %s", s.gateway.Name(), params.AmountMinor, params.Currency))

	order, err := s.gateway.CreateOrder(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s create order: %w", s.gateway.Name(), err)
	}

	orderID := order.ID()
	s.log.LogPayment("ORDER_CREATED", orderID, fmt.Sprintf("Gateway order created for receipt %s", params.Receipt))

	s.recordOrder(ctx, orderID, params)
	publishEvent(s.events, s.log, s.instanceID, models.EventPaymentOrderCreated, orderID, map[string]interface{}{
		"orderId":  orderID,
		"amount":   params.AmountMinor,
		"currency": params.Currency,
		"receipt":  params.Receipt,
		"provider": s.gateway.Name(),
	})
	return order, nil
}

// VerifyPayment checks hex(HMAC-SHA256(secret, orderId|paymentId)) against
// the signature in constant time.
func (s *PaymentService) VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (*models.VerifiedPayment, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, newError(ErrValidation, "orderId, paymentId and signature are required")
	}
	if s.signingSecret == "" {
		s.log.Warn("PAYMENT", "Verify payment rejected: signing secret not configured")
		return nil, newError(ErrNotConfigured, "Payment gateway not configured")
	}

	expected := Sign(s.signingSecret, req.OrderID, req.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		s.log.LogSecurity("SIGNATURE_MISMATCH", fmt.Sprintf("Invalid signature for order %s payment %s", req.OrderID, req.PaymentID))
		return nil, newError(ErrValidation, "Invalid payment signature")
	}

	s.log.LogPayment("VERIFIED", req.PaymentID, fmt.Sprintf("Signature verified for order %s", req.OrderID))

	if s.records != nil {
		if err := s.records.MarkPaymentCaptured(ctx, req.OrderID, req.PaymentID); err != nil {
			s.log.Warn("PAYMENT", fmt.Sprintf("Could not mark order %s captured: %v", req.OrderID, err))
		}
	}
	publishEvent(s.events, s.log, s.instanceID, models.EventPaymentVerified, req.OrderID, models.VerifiedPayment{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
	})

	return &models.VerifiedPayment{OrderID: req.OrderID, PaymentID: req.PaymentID}, nil
}

// Sign returns the checkout signature for an order/payment pair.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *PaymentService) ListRecords(ctx context.Context, limit, offset int) ([]models.PaymentRecord, error) {
	if s.records == nil {
		return nil, newError(ErrNotConfigured, "Relational backend not configured")
	}
	if limit < 0 || offset < 0 {
		return nil, newError(ErrValidation, "limit and offset must be non-negative")
	}
	recs, err := s.records.ListPaymentRecords(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	return recs, nil
}

func (s *PaymentService) GetRecord(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	if s.records == nil {
		return nil, newError(ErrNotConfigured, "Relational backend not configured")
	}
	rec, err := s.records.GetPaymentRecord(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "Payment record not found")
		}
		return nil, fmt.Errorf("failed to get payment record %s: %w", orderID, err)
	}
	return rec, nil
}

func (s *PaymentService) recordOrder(ctx context.Context, orderID string, params models.OrderParams) {
	if s.records == nil || orderID == "" {
		return
	}
	rec := &models.PaymentRecord{
		OrderID:  orderID,
		Provider: s.gateway.Name(),
		Amount:   params.AmountMinor,
		Currency: params.Currency,
		Receipt:  params.Receipt,
		Status:   models.StatusCreated,
	}
	if err := s.records.SavePaymentRecord(ctx, rec); err != nil {
		s.log.Warn("PAYMENT", fmt.Sprintf("Could not record order %s: %v", orderID, err))
	}
}
