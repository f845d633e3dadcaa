package services

import (
	"context"
	"fmt"
	"strings"

	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/storage"
)

type UserService struct {
	store storage.DocumentStore
	log   *logger.Logger
}

func NewUserService(store storage.DocumentStore, log *logger.Logger) *UserService {
	return &UserService{store: store, log: log}
}

// Update merges updates into the user's profile. Identifier keys in the body
// are ignored.
func (s *UserService) Update(ctx context.Context, userID string, updates map[string]interface{}) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, newError(ErrValidation, "userId is required")
	}

	fields := models.SanitizeUserUpdate(updates)
	user, err := s.store.UpdateUser(ctx, userID, fields)
	if isNotFound(err) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}

	s.log.LogDatabase("UPDATE", "users", fmt.Sprintf("User %s updated (%d fields)", userID, len(fields)))
	return user, nil
}
