package storage

import (
	"context"
	"errors"

	"pguncle/internal/models"
)

// ErrNotFound is returned by by-identifier operations when nothing matches.
var ErrNotFound = errors.New("not found")

// DocumentStore is the property/user/booking persistence backend. Every
// method is a thin pass-through to the underlying store; errors are wrapped
// but never retried.
type DocumentStore interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	// GetPropertiesByIDs returns the properties that exist, keyed by id.
	GetPropertiesByIDs(ctx context.Context, ids []string) (map[string]models.Property, error)
	CreateProperty(ctx context.Context, p models.Property) (*models.Property, error)
	UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error)
	SetPropertyActive(ctx context.Context, id string, active bool) (*models.Property, error)
	DeleteProperty(ctx context.Context, id string) error
	CountProperties(ctx context.Context) (int64, error)

	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	UpsertUserByEmail(ctx context.Context, email string) (*models.User, error)

	ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListBookings(ctx context.Context, limit, offset int) ([]models.Booking, error)
	CreateBooking(ctx context.Context, b models.Booking) (*models.Booking, error)

	// WriteProbe writes a throwaway diagnostics document and returns its id.
	WriteProbe(ctx context.Context) (string, error)
	DeleteProbe(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
