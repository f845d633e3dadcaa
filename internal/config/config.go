package config

import (
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Payment  PaymentConfig
	Cache    CacheConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:":8085"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	RateLimit    int           `envconfig:"RATE_LIMIT_RPS" default:"100"`
}

// DatabaseConfig describes the relational backend (MySQL).
type DatabaseConfig struct {
	Host         string        `envconfig:"DB_HOST" default:"localhost"`
	Port         string        `envconfig:"DB_PORT" default:"3306"`
	Username     string        `envconfig:"DB_USER" default:"root"`
	Password     string        `envconfig:"DB_PASS"`
	Database     string        `envconfig:"DB_NAME" default:"pguncle"`
	MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	MaxLifetime  time.Duration `envconfig:"DB_MAX_LIFETIME" default:"5m"`
}

// DSN renders the go-sql-driver/mysql connection string.
func (d DatabaseConfig) DSN() string {
	return d.Username + ":" + d.Password + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Database +
		"?charset=utf8mb4&parseTime=True&loc=UTC"
}

// MongoConfig describes the document store.
type MongoConfig struct {
	URI            string        `envconfig:"MONGO_URI"`
	Database       string        `envconfig:"MONGO_DATABASE" default:"pguncle"`
	ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type KafkaConfig struct {
	Brokers     []string `envconfig:"KAFKA_BROKERS"`
	GroupID     string   `envconfig:"KAFKA_GROUP_ID" default:"pguncle"`
	TopicPrefix string   `envconfig:"KAFKA_TOPIC_PREFIX" default:"pguncle"`
}

// PaymentConfig holds gateway credentials. Empty credentials leave the
// payment bridge in its "not configured" state.
type PaymentConfig struct {
	Provider          string `envconfig:"PAYMENT_PROVIDER" default:"razorpay"`
	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`
	StripeSecretKey   string `envconfig:"STRIPE_SECRET_KEY"`
	DefaultCurrency   string `envconfig:"PAYMENT_DEFAULT_CURRENCY" default:"INR"`
}

type CacheConfig struct {
	Backend    string        `envconfig:"CACHE_BACKEND" default:"memory"`
	MaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"1000"`
	TTL        time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	KeyPrefix  string        `envconfig:"CACHE_KEY_PREFIX" default:"pguncle:cache:"`
}

type AuthConfig struct {
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	TokenTTL      time.Duration `envconfig:"JWT_TTL" default:"24h"`
	OTPTTL        time.Duration `envconfig:"OTP_TTL" default:"10m"`
	// OTPMaxAttempts wrong guesses burn the pending code.
	OTPMaxAttempts int `envconfig:"OTP_MAX_ATTEMPTS" default:"5"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     string `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASS"`
	From     string `envconfig:"SMTP_FROM"`
}

// Configured reports whether enough is set to actually send mail.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.From != ""
}

type LogConfig struct {
	Format string `envconfig:"LOG_FORMAT" default:"console"`
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	File   string `envconfig:"LOG_FILE"`
}

// Load reads the process environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	return &cfg, nil
}

// Required lists variables the site cannot fully run without.
var Required = []string{
	"MONGO_URI",
	"DB_HOST",
	"DB_USER",
	"DB_PASS",
	"DB_NAME",
	"RAZORPAY_KEY_ID",
	"RAZORPAY_KEY_SECRET",
	"ADMIN_PASSWORD",
	"JWT_SECRET",
}

// Optional lists variables that enable extra behavior when present.
var Optional = []string{
	"MONGO_DATABASE",
	"DB_PORT",
	"STRIPE_SECRET_KEY",
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_USER",
	"SMTP_PASS",
	"SMTP_FROM",
	"REDIS_ADDR",
	"KAFKA_BROKERS",
}

// Presence reports, for every known variable, whether it is set to a
// non-empty value. Values are never exposed.
func Presence() map[string]bool {
	out := make(map[string]bool, len(Required)+len(Optional))
	for _, name := range append(append([]string{}, Required...), Optional...) {
		v, ok := os.LookupEnv(name)
		out[name] = ok && v != ""
	}
	return out
}
