package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pguncle/internal/auth"
	"pguncle/internal/cache"
	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/otp"
	"pguncle/internal/services"
	"pguncle/internal/storage"
)

const signingSecret = "test_key_secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) CreateOrder(ctx context.Context, params models.OrderParams) (models.GatewayOrder, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.GatewayOrder), args.Error(1)
}

type sentCodes map[string]string

func (s sentCodes) SendOTP(toEmail, code string) error {
	s[toEmail] = code
	return nil
}

type testServer struct {
	router  *gin.Engine
	store   *storage.InMemoryStore
	cache   *cache.Memory
	gateway *MockGateway
	issuer  *auth.Issuer
	codes   sentCodes
}

type serverOptions struct {
	noGateway bool
	noSecret  bool
	rel       storage.RelationalStore
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	log := logger.NewNop()
	store := storage.NewInMemoryStore()
	mem := cache.NewMemory(100, time.Minute)
	issuer := auth.NewIssuer("jwt-secret", time.Hour)
	codes := sentCodes{}

	gw := new(MockGateway)
	payCfg := services.PaymentConfig{Gateway: gw, SigningSecret: signingSecret}
	if opts.noGateway {
		payCfg.Gateway = nil
	}
	if opts.noSecret {
		payCfg.SigningSecret = ""
	}

	caches := services.NewCacheService(mem, nil, "node-test", log)
	router := NewRouter(RouterDeps{
		Log:        log,
		Issuer:     issuer,
		RateLimit:  1000,
		Properties: services.NewPropertyService(store, caches, nil, "node-test", log),
		Users:      services.NewUserService(store, log),
		Bookings:   services.NewBookingService(store, nil, "node-test", log),
		Payments:   services.NewPaymentService(payCfg, opts.rel, nil, "node-test", log),
		Caches:     caches,
		System:     services.NewSystemService(store, opts.rel, log),
		Auth: services.NewAuthService(store, otp.NewMemoryStore(), codes, issuer,
			services.AuthConfig{AdminPassword: "admin-pass"}, log),
	})

	return &testServer{router: router, store: store, cache: mem, gateway: gw, issuer: issuer, codes: codes}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}
