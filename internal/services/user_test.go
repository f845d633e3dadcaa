package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pguncle/internal/logger"
	"pguncle/internal/storage"
)

func TestUserService_Update(t *testing.T) {
	store := storage.NewInMemoryStore()
	store.PutUser("u1", map[string]interface{}{"name": "Asha", "email": "asha@example.com"})
	svc := NewUserService(store, logger.NewNop())

	user, err := svc.Update(context.Background(), "u1", map[string]interface{}{
		"phone": "98450",
		"id":    "hijack",
		"_id":   "hijack",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "98450", user.Fields["phone"])
	assert.Equal(t, "Asha", user.Fields["name"])
	assert.NotContains(t, user.Fields, "_id")
	assert.NotContains(t, user.Fields, "id")
}

func TestUserService_UpdateIgnoresIdentityAndTimestamps(t *testing.T) {
	store := storage.NewInMemoryStore()
	store.PutUser("u1", map[string]interface{}{"email": "asha@example.com", "createdAt": "2025-01-01"})
	svc := NewUserService(store, logger.NewNop())

	user, err := svc.Update(context.Background(), "u1", map[string]interface{}{
		"email":       "someone@else.com",
		"createdAt":   "1999-01-01",
		"lastLoginAt": "1999-01-01",
		"city":        "Pune",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Fields["email"])
	assert.Equal(t, "2025-01-01", user.Fields["createdAt"])
	assert.NotContains(t, user.Fields, "lastLoginAt")
	assert.Equal(t, "Pune", user.Fields["city"])
}

func TestUserService_UpdateErrors(t *testing.T) {
	svc := NewUserService(storage.NewInMemoryStore(), logger.NewNop())

	_, err := svc.Update(context.Background(), "", map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(context.Background(), "ghost", map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}
