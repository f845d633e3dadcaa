package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindErrorsDescribeTheFailure(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		wantMsg string
	}{
		{"malformed property json", http.MethodPost, "/properties", `{"name": "A",`, "Malformed JSON body"},
		{"property missing name", http.MethodPost, "/properties", map[string]interface{}{"city": "Pune"}, "name is required"},
		{"property name wrong type", http.MethodPost, "/properties", map[string]interface{}{"name": 42}, "name must be a string"},
		{"toggle wrong type", http.MethodPost, "/properties/p1/toggle", map[string]interface{}{"isActive": "yes"}, "isActive must be a boolean"},
		{"body not an object", http.MethodPost, "/properties", `[1,2]`, "Request body must be a JSON object"},
		{"booking negative guests", http.MethodPost, "/bookings", map[string]interface{}{"userId": "u1", "propertyId": "p1", "guests": -1}, "guests cannot be negative"},
		{"booking missing user", http.MethodPost, "/bookings", map[string]interface{}{"propertyId": "p1"}, "userId is required"},
		{"malformed booking json", http.MethodPost, "/bookings", `{"userId":`, "Malformed JSON body"},
		{"otp bad email", http.MethodPost, "/auth/otp/send", map[string]interface{}{"email": "not-an-email"}, "email must be a valid email"},
		{"otp short code", http.MethodPost, "/auth/otp/verify", map[string]interface{}{"email": "a@b.co", "otp": "12"}, "otp must be 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			decode(t, w, &body)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestEmptyBodyFallsThroughToServiceValidation(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, http.MethodPost, "/bookings", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"userId and propertyId are required"}`, w.Body.String())
}
