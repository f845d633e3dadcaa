package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"pguncle/internal/auth"
	"pguncle/internal/cache"
	"pguncle/internal/config"
	"pguncle/internal/handlers"
	"pguncle/internal/kafka"
	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/otp"
	rediswrap "pguncle/internal/redis"
	"pguncle/internal/services"
	"pguncle/internal/storage"
	"pguncle/internal/utils"
)

// Global logger instance
var log *logger.Logger

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log = logger.NewLogger(logger.Options{})
		log.Fatal("CONFIG", "Invalid configuration: "+err.Error())
	}

	log = logger.NewLogger(logger.Options{Format: cfg.Log.Format, Level: cfg.Log.Level, File: cfg.Log.File})
	defer log.Close()

	if envErr != nil {
		log.Warn("ENV", "Error loading .env file, using environment variables")
	}

	log.LogProcess("STARTUP", "PGUNCLE API starting up...")
	instanceID := utils.GenerateInstanceID()
	log.Info("SYSTEM", "Instance id: "+instanceID)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Document store
	var docs storage.DocumentStore
	if cfg.Mongo.URI != "" {
		log.LogProcess("DATABASE", "Initializing MongoDB document store...")
		mongoStore, err := storage.NewMongoStore(ctx, cfg.Mongo, log)
		if err != nil {
			log.Fatal("DATABASE", "Failed to initialize MongoDB: "+err.Error())
		}
		docs = mongoStore
	} else {
		log.Warn("DATABASE", "MONGO_URI not set, using in-memory document store")
		docs = storage.NewInMemoryStore()
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = docs.Close(closeCtx)
	}()

	// Relational backend. The API still serves without it; /health reports it.
	var rel storage.RelationalStore
	log.LogProcess("DATABASE", "Initializing MySQL relational backend...")
	mysqlStore, err := storage.NewMySQLStore(cfg.Database, log)
	if err != nil {
		log.Error("DATABASE", "MySQL unavailable, payment records disabled: "+err.Error())
	} else {
		rel = mysqlStore
		defer mysqlStore.Close()
	}

	// Redis backs the shared cache and pending OTP codes when configured.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Error("REDIS", "Redis ping failed, falling back to memory: "+err.Error())
			_ = redisClient.Close()
			redisClient = nil
		} else {
			log.LogProcess("REDIS", "Redis connection successful")
			defer redisClient.Close()
		}
		cancel()
	}

	var responseCache cache.Cache
	if strings.EqualFold(cfg.Cache.Backend, "redis") && redisClient != nil {
		responseCache = cache.NewRedis(redisClient, cfg.Cache.KeyPrefix, cfg.Cache.TTL)
		log.LogCache("INIT", cfg.Cache.KeyPrefix, "Using Redis cache backend")
	} else {
		responseCache = cache.NewMemory(cfg.Cache.MaxEntries, cfg.Cache.TTL)
		log.LogCache("INIT", "memory", "Using in-memory cache backend")
	}

	var otpStore services.OTPStore = otp.NewMemoryStore()
	if redisClient != nil {
		otpStore = rediswrap.NewRedis(redisClient)
	}

	// Initialize Kafka
	log.LogProcess("KAFKA", "Initializing Kafka producer...")
	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, log)
	if err != nil {
		log.Fatal("KAFKA", "Failed to create Kafka producer: "+err.Error())
	}
	defer kafkaProducer.Close()

	// Initialize payment gateway
	gateway := newGateway(cfg.Payment)

	// OTP email delivery
	var sender otp.Sender
	if cfg.SMTP.Configured() {
		sender = otp.NewSMTPSender(cfg.SMTP, "PGUNCLE")
	} else {
		log.Warn("OTP", "SMTP not configured, OTP login disabled")
	}

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize services and router
	caches := services.NewCacheService(responseCache, kafkaProducer, instanceID, log)
	router := handlers.NewRouter(handlers.RouterDeps{
		Log:        log,
		Issuer:     issuer,
		RateLimit:  cfg.Server.RateLimit,
		Properties: services.NewPropertyService(docs, caches, kafkaProducer, instanceID, log),
		Users:      services.NewUserService(docs, log),
		Bookings:   services.NewBookingService(docs, kafkaProducer, instanceID, log),
		Payments: services.NewPaymentService(services.PaymentConfig{
			Gateway:         gateway,
			SigningSecret:   cfg.Payment.RazorpayKeySecret,
			DefaultCurrency: cfg.Payment.DefaultCurrency,
		}, rel, kafkaProducer, instanceID, log),
		Caches: caches,
		System: services.NewSystemService(docs, rel, log),
		Auth: services.NewAuthService(docs, otpStore, sender, issuer, services.AuthConfig{
			AdminPassword: cfg.Auth.AdminPassword,
			OTPTTL:        cfg.Auth.OTPTTL,
			MaxAttempts:   cfg.Auth.OTPMaxAttempts,
		}, log),
	})
	log.LogProcess("SERVICE", "All services initialized")

	// Start Kafka consumer in background for cache invalidations from other instances
	if len(cfg.Kafka.Brokers) > 0 {
		topic := kafka.TopicFor(cfg.Kafka.TopicPrefix, models.EventCacheInvalidate)
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-"+instanceID, []string{topic}, log)
		if err != nil {
			log.Error("KAFKA", "Failed to create Kafka consumer: "+err.Error())
		} else {
			defer consumer.Close()
			go func() {
				log.LogKafka("START", "consumer", "Starting cache invalidation consumer")
				err := consumer.Consume(ctx, &kafka.EventHandler{
					SkipSource: instanceID,
					Log:        log,
					Handle: func(ev *models.DomainEvent) error {
						return caches.ApplyInvalidation(ctx, ev)
					},
				})
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Error("KAFKA", "Consumer error: "+err.Error())
				}
			}()
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.LogProcess("SERVER", "Starting HTTP server on port "+cfg.Server.Port)
		log.Info("STARTUP", "🚀 PGUNCLE API is ready to accept requests!")
		log.Info("STARTUP", "📊 Health check available at: http://localhost"+cfg.Server.Port+"/health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "Server failed to start: "+err.Error())
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("SHUTDOWN", "Received shutdown signal, initiating graceful shutdown...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("SHUTDOWN", "Server forced to shutdown: "+err.Error())
		return
	}

	log.Info("SHUTDOWN", "✅ PGUNCLE API shutdown completed successfully")
}

// newGateway returns nil when the selected provider has no credentials, which
// leaves order creation answering 503.
func newGateway(cfg config.PaymentConfig) services.Gateway {
	switch strings.ToLower(cfg.Provider) {
	case "stripe":
		gw, err := services.NewStripeGateway(cfg.StripeSecretKey, log)
		if err != nil {
			log.Warn("PAYMENT", "Stripe gateway not configured")
			return nil
		}
		return gw
	default:
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			log.Warn("PAYMENT", "RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET not set, order creation disabled")
			return nil
		}
		return services.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, log)
	}
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
