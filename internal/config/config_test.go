package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "razorpay", cfg.Payment.Provider)
	assert.Equal(t, "INR", cfg.Payment.DefaultCurrency)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, 5, cfg.Auth.OTPMaxAttempts)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "3306", Username: "u", Password: "p", Database: "pguncle"}
	assert.Equal(t, "u:p@tcp(db:3306)/pguncle?charset=utf8mb4&parseTime=True&loc=UTC", d.DSN())
}

func TestPresenceNeverLeaksValues(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_123")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	flags := Presence()

	assert.True(t, flags["RAZORPAY_KEY_ID"])
	assert.False(t, flags["RAZORPAY_KEY_SECRET"])
	assert.True(t, flags["SMTP_HOST"])
	assert.Len(t, flags, len(Required)+len(Optional))
}
