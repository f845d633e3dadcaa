package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"pguncle/internal/auth"
	"pguncle/internal/logger"
	"pguncle/internal/utils"
)

const claimsKey = "auth.claims"

func EnhancedLogger(log *logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		// Log to our enhanced logger
		duration := param.Latency.String()
		status := fmt.Sprintf("%d", param.StatusCode)

		// Pick the level from the status code
		if param.StatusCode >= 500 {
			log.Error("API", fmt.Sprintf("%s %s - %s (%s) - ERROR: %s",
				param.Method, param.Path, status, duration, param.ErrorMessage))
		} else if param.StatusCode >= 400 {
			log.Warn("API", fmt.Sprintf("%s %s - %s (%s) - Client Error",
				param.Method, param.Path, status, duration))
		} else {
			log.LogAPI(param.Method, param.Path, status, duration)
		}

		// Request details for debugging
		log.Debug("REQUEST", fmt.Sprintf("IP: %s, UserAgent: %s",
			param.ClientIP, param.Request.UserAgent()))

		// Empty line output, logging is handled above
		return ""
	})
}

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("PANIC", fmt.Sprintf("Recovered from panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse("Internal server error"))
	})
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		// Preflight requests stop here
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RateLimit applies one process-wide token bucket of rps requests per second.
func RateLimit(rps int, log *logger.Logger) gin.HandlerFunc {
	if rps <= 0 {
		rps = 100
	}
	limiter := rate.NewLimiter(rate.Limit(rps), rps)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			log.LogSecurity("RATE_LIMIT", fmt.Sprintf("Rate limit exceeded for IP: %s", c.ClientIP()))
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.ErrorResponse("Rate limit exceeded"))
			return
		}
		c.Next()
	}
}

func SecurityHeaders(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Add security headers
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		// Log security events
		if c.GetHeader("X-Forwarded-For") != "" {
			log.LogSecurity("PROXY_REQUEST", fmt.Sprintf("Request via proxy from: %s", c.GetHeader("X-Forwarded-For")))
		}

		c.Next()
	}
}

// JWTAuth requires a valid bearer token and stores its claims on the context.
func JWTAuth(issuer *auth.Issuer, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Missing bearer token"))
			return
		}

		claims, err := issuer.ParseValidate(token)
		if err != nil {
			log.LogSecurity("TOKEN_REJECTED", fmt.Sprintf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or expired token"))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after JWTAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse("Forbidden"))
			return
		}
		c.Next()
	}
}

// Claims returns the authenticated caller, or nil.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
