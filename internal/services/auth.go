package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"pguncle/internal/auth"
	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/otp"
	"pguncle/internal/storage"
)

// OTPStore holds one pending hashed code per email. Satisfied by
// *redis.Redis and *otp.MemoryStore.
type OTPStore interface {
	AddOTP(ctx context.Context, email, hash string, ttl time.Duration) (bool, error)
	GetOTP(ctx context.Context, email string) (string, error)
	// RecordFailure counts a wrong guess and returns the total for the live code.
	RecordFailure(ctx context.Context, email string, ttl time.Duration) (int64, error)
	RemoveOTP(ctx context.Context, email string) error
}

// Per-email limiters are dropped limiterWindow after creation or when more
// than limiterCapacity addresses are tracked.
const (
	limiterCapacity = 10000
	limiterWindow   = 10 * time.Minute
)

type AuthConfig struct {
	AdminPassword string
	OTPTTL        time.Duration
	// SendsPerMinute bounds OTP emails per address.
	SendsPerMinute int
	// VerifiesPerMinute bounds verification attempts per address.
	VerifiesPerMinute int
	// MaxAttempts is the number of wrong guesses after which a code is burned.
	MaxAttempts int
}

type AuthService struct {
	store  storage.DocumentStore
	otps   OTPStore
	sender otp.Sender
	tokens *auth.Issuer
	cfg    AuthConfig
	log    *logger.Logger

	mu             sync.Mutex
	sendLimiters   *expirable.LRU[string, *rate.Limiter]
	verifyLimiters *expirable.LRU[string, *rate.Limiter]
}

func NewAuthService(store storage.DocumentStore, otps OTPStore, sender otp.Sender, tokens *auth.Issuer, cfg AuthConfig, log *logger.Logger) *AuthService {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.SendsPerMinute <= 0 {
		cfg.SendsPerMinute = 3
	}
	if cfg.VerifiesPerMinute <= 0 {
		cfg.VerifiesPerMinute = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &AuthService{
		store:          store,
		otps:           otps,
		sender:         sender,
		tokens:         tokens,
		cfg:            cfg,
		log:            log,
		sendLimiters:   expirable.NewLRU[string, *rate.Limiter](limiterCapacity, nil, limiterWindow),
		verifyLimiters: expirable.NewLRU[string, *rate.Limiter](limiterCapacity, nil, limiterWindow),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SendOTP emails a fresh 6-digit code. Only one code per address is live at a
// time.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return newError(ErrValidation, "email is required")
	}
	if s.sender == nil {
		return newError(ErrNotConfigured, "Email delivery not configured")
	}
	if !s.limiter(s.sendLimiters, email, s.cfg.SendsPerMinute).Allow() {
		s.log.LogSecurity("OTP_RATE_LIMIT", fmt.Sprintf("Too many OTP requests for %s", email))
		return newError(ErrRateLimited, "Too many OTP requests, try again later")
	}

	code, err := otp.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	added, err := s.otps.AddOTP(ctx, email, string(hash), s.cfg.OTPTTL)
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	if !added {
		return newError(ErrRateLimited, "An OTP was already sent, check your email or try again later")
	}

	if err := s.sender.SendOTP(email, code); err != nil {
		if rmErr := s.otps.RemoveOTP(ctx, email); rmErr != nil {
			s.log.Warn("OTP", fmt.Sprintf("Failed to release otp for %s: %v", email, rmErr))
		}
		return fmt.Errorf("failed to send otp: %w", err)
	}

	s.log.Info("OTP", fmt.Sprintf("Sent OTP to %s", email))
	return nil
}

// VerifyOTP consumes a pending code and returns a session for the user,
// creating the user on first login.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*models.Session, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, newError(ErrValidation, "email and otp are required")
	}
	if !s.tokens.Configured() {
		return nil, newError(ErrNotConfigured, "Login not configured")
	}

	if !s.limiter(s.verifyLimiters, email, s.cfg.VerifiesPerMinute).Allow() {
		s.log.LogSecurity("OTP_RATE_LIMIT", fmt.Sprintf("Too many verification attempts for %s", email))
		return nil, newError(ErrRateLimited, "Too many attempts, try again later")
	}

	hash, err := s.otps.GetOTP(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to read otp: %w", err)
	}
	if hash == "" {
		s.log.LogSecurity("OTP_REJECTED", fmt.Sprintf("No pending code for %s", email))
		return nil, newError(ErrUnauthorized, "Invalid or expired code")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		s.rejectGuess(ctx, email)
		return nil, newError(ErrUnauthorized, "Invalid or expired code")
	}
	if err := s.otps.RemoveOTP(ctx, email); err != nil {
		s.log.Warn("OTP", fmt.Sprintf("Failed to remove used otp for %s: %v", email, err))
	}

	user, err := s.store.UpsertUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", email, err)
	}

	token, err := s.tokens.CreateAccessToken(user.ID, auth.RoleUser, email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.LogSecurity("LOGIN", fmt.Sprintf("User %s signed in", user.ID))
	return &models.Session{Token: token, User: user}, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, password string) (*models.Session, error) {
	if s.cfg.AdminPassword == "" || !s.tokens.Configured() {
		return nil, newError(ErrNotConfigured, "Admin login not configured")
	}
	if password == "" {
		return nil, newError(ErrValidation, "password is required")
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) != 1 {
		s.log.LogSecurity("ADMIN_LOGIN_FAILED", "Invalid admin password")
		return nil, newError(ErrUnauthorized, "Invalid password")
	}

	token, err := s.tokens.CreateAccessToken("admin", auth.RoleAdmin, "")
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	s.log.LogSecurity("ADMIN_LOGIN", "Admin signed in")
	return &models.Session{Token: token}, nil
}

// rejectGuess records a wrong code and burns the pending code once
// MaxAttempts is reached.
func (s *AuthService) rejectGuess(ctx context.Context, email string) {
	failures, err := s.otps.RecordFailure(ctx, email, s.cfg.OTPTTL)
	if err != nil {
		// fail closed
		s.log.Warn("OTP", fmt.Sprintf("Failed to count otp failure for %s: %v", email, err))
		failures = int64(s.cfg.MaxAttempts)
	}
	s.log.LogSecurity("OTP_REJECTED", fmt.Sprintf("Wrong code for %s (%d/%d)", email, failures, s.cfg.MaxAttempts))

	if failures >= int64(s.cfg.MaxAttempts) {
		if err := s.otps.RemoveOTP(ctx, email); err != nil {
			s.log.Warn("OTP", fmt.Sprintf("Failed to burn otp for %s: %v", email, err))
			return
		}
		s.log.LogSecurity("OTP_BURNED", fmt.Sprintf("Code for %s discarded after %d wrong attempts", email, failures))
	}
}

func (s *AuthService) limiter(set *expirable.LRU[string, *rate.Limiter], email string, perMinute int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := set.Get(email)
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		set.Add(email, l)
	}
	return l
}
