package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
	log      *logger.Logger
}

func NewPaymentHandler(payments *services.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	order, err := h.payments.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	res, err := h.payments.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Payment verified successfully",
		"paymentId": res.PaymentID,
		"orderId":   res.OrderID,
	})
}

// ListRecords handles GET /admin/payments.
func (h *PaymentHandler) ListRecords(c *gin.Context) {
	limit, offset, ok := pageParams(c, h.log)
	if !ok {
		return
	}
	recs, err := h.payments.ListRecords(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if recs == nil {
		recs = []models.PaymentRecord{}
	}
	c.JSON(http.StatusOK, recs)
}

func (h *PaymentHandler) GetRecord(c *gin.Context) {
	rec, err := h.payments.GetRecord(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
