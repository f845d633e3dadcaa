package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"pguncle/internal/logger"
	"pguncle/internal/services"
	"pguncle/internal/utils"
)

// respondError maps a service error to a status and a client-safe message.
// Unclassified errors are logged in full and reported generically.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status, msg := classify(err)
	where := fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Error("API", fmt.Sprintf("%s failed: %v", where, err))
		_ = c.Error(err)
	} else {
		log.Warn("API", fmt.Sprintf("%s rejected (%d): %v", where, status, err))
	}
	c.JSON(status, utils.ErrorResponse(msg))
}

func classify(err error) (int, string) {
	var se *services.Error
	msg := ""
	if errors.As(err, &se) {
		msg = se.Message
	}
	pick := func(fallback string) string {
		if msg != "" {
			return msg
		}
		return fallback
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, pick("Invalid request")
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, pick("Not found")
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusServiceUnavailable, pick("Service not configured")
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, pick("Unauthorized")
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, pick("Too many requests")
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func init() {
	// report validation failures by their JSON field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes and validates the body into dst. An empty body leaves dst
// untouched so the service can report what is missing.
func bindJSON(c *gin.Context, log *logger.Logger, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	log.Warn("API", fmt.Sprintf("%s %s: invalid payload: %v", c.Request.Method, c.Request.URL.Path, err))
	c.JSON(http.StatusBadRequest, utils.ErrorResponse(payloadMessage(err)))
	return false
}

// payloadMessage describes a bind failure without echoing the raw body.
func payloadMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var fieldErrs validator.ValidationErrors

	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "Malformed JSON body"
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return "Request body must be a JSON object"
		}
		return fmt.Sprintf("%s must be %s", typeErr.Field, kindName(typeErr.Type))
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		return fieldMessage(fieldErrs[0])
	default:
		return "Invalid request payload"
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gte":
		if fe.Param() == "0" {
			return field + " cannot be negative"
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	case "numeric":
		return field + " must contain only digits"
	default:
		return field + " is invalid"
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Map, reflect.Struct:
		return "an object"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "a valid value"
	}
}
