package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pguncle/internal/models"
	"pguncle/internal/storage"
)

// stubRelational is a RelationalStore with a switchable ping result.
type stubRelational struct {
	pingErr   error
	schemaErr error
}

func (s *stubRelational) Ping(ctx context.Context) error { return s.pingErr }
func (s *stubRelational) RefreshSchema(ctx context.Context) (*storage.SchemaSnapshot, error) {
	if s.schemaErr != nil {
		return nil, s.schemaErr
	}
	return &storage.SchemaSnapshot{Tables: map[string][]string{"payment_records": {"order_id"}}}, nil
}
func (s *stubRelational) SavePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error {
	return nil
}
func (s *stubRelational) MarkPaymentCaptured(ctx context.Context, orderID, paymentID string) error {
	return nil
}
func (s *stubRelational) GetPaymentRecord(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	return nil, storage.ErrNotFound
}
func (s *stubRelational) ListPaymentRecords(ctx context.Context, limit, offset int) ([]models.PaymentRecord, error) {
	return nil, nil
}
func (s *stubRelational) Close() error { return nil }

func TestHealth(t *testing.T) {
	rel := &stubRelational{}
	s := newTestServer(t, serverOptions{rel: rel})

	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.NotEmpty(t, body["duration"])
	assert.NotEmpty(t, body["timestamp"])

	rel.pingErr = errors.New("dial tcp 10.0.0.5:3306: connection refused")
	w = s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "disconnected", body["database"])
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestEnvDiagnostics(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_1")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	s := newTestServer(t, serverOptions{})

	w := s.do(t, http.MethodGet, "/diagnostics/env", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var flags map[string]bool
	decode(t, w, &flags)
	assert.True(t, flags["RAZORPAY_KEY_ID"])
	assert.False(t, flags["RAZORPAY_KEY_SECRET"])
	assert.NotContains(t, w.Body.String(), "rzp_test_1")
}

func TestDocumentDiagnostics(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	s.do(t, http.MethodPost, "/properties", map[string]interface{}{"name": "A"})

	w := s.do(t, http.MethodGet, "/diagnostics/firestore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["propertiesCount"])
	assert.NotEmpty(t, body["testDocId"])
}

func TestSchemaRefresh(t *testing.T) {
	rel := &stubRelational{}
	s := newTestServer(t, serverOptions{rel: rel})

	w := s.do(t, http.MethodPost, "/schema/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	rel.schemaErr = errors.New("Error 1142: CREATE command denied to user 'app'")
	w = s.do(t, http.MethodPost, "/schema/refresh", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "denied")
}
