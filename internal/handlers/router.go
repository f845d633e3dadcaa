package handlers

import (
	"github.com/gin-gonic/gin"

	"pguncle/internal/auth"
	"pguncle/internal/logger"
	"pguncle/internal/middleware"
	"pguncle/internal/services"
)

type RouterDeps struct {
	Log        *logger.Logger
	Issuer     *auth.Issuer
	RateLimit  int
	Properties *services.PropertyService
	Users      *services.UserService
	Bookings   *services.BookingService
	Payments   *services.PaymentService
	Caches     *services.CacheService
	System     *services.SystemService
	Auth       *services.AuthService
}

func NewRouter(d RouterDeps) *gin.Engine {
	log := d.Log
	router := gin.New()

	router.Use(middleware.EnhancedLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders(log))
	router.Use(middleware.RateLimit(d.RateLimit, log))

	system := NewSystemHandler(d.System, log)
	router.GET("/health", system.Health)
	router.GET("/diagnostics/env", system.Env)
	router.GET("/diagnostics/firestore", system.DocumentDiagnostics)
	router.POST("/schema/refresh", system.RefreshSchema)

	properties := NewPropertyHandler(d.Properties, log)
	router.GET("/properties", properties.List)
	router.POST("/properties", properties.Create)
	router.GET("/properties/:id", properties.Get)
	router.PATCH("/properties/:id", properties.Update)
	router.DELETE("/properties/:id", properties.Delete)
	router.POST("/properties/:id/toggle", properties.Toggle)

	users := NewUserHandler(d.Users, log)
	router.PATCH("/user/update", users.Update)

	bookings := NewBookingHandler(d.Bookings, log)
	router.GET("/bookings/user/:userId", bookings.ListForUser)
	router.POST("/bookings", bookings.Create)

	payments := NewPaymentHandler(d.Payments, log)
	router.POST("/payments/create-order", payments.CreateOrder)
	router.POST("/payments/verify-payment", payments.VerifyPayment)

	caches := NewCacheHandler(d.Caches, log)
	router.GET("/cache/clear", caches.Stats)
	router.POST("/cache/clear", caches.Clear)

	authH := NewAuthHandler(d.Auth, log)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/otp/send", authH.SendOTP)
		authGroup.POST("/otp/verify", authH.VerifyOTP)
		authGroup.POST("/admin/login", authH.AdminLogin)
	}

	admin := router.Group("/admin", middleware.JWTAuth(d.Issuer, log), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", bookings.ListAll)
		admin.GET("/payments", payments.ListRecords)
		admin.GET("/payments/:orderId", payments.GetRecord)
	}

	log.LogProcess("ROUTER", "All routes registered successfully")
	return router
}
