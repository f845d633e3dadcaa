package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pguncle/internal/models"
)

// runDocumentStoreContract exercises behavior every DocumentStore must share.
func runDocumentStoreContract(t *testing.T, newStore func(t *testing.T) DocumentStore) {
	t.Run("property lifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.CreateProperty(ctx, models.Property{Name: "Sea View", City: "Goa", IsActive: true})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := s.GetProperty(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sea View", got.Name)

		name := "Sea View Deluxe"
		updated, err := s.UpdateProperty(ctx, created.ID, models.PropertyPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Sea View Deluxe", updated.Name)
		assert.Equal(t, "Goa", updated.City)

		toggled, err := s.SetPropertyActive(ctx, created.ID, false)
		require.NoError(t, err)
		assert.False(t, toggled.IsActive)

		n, err := s.CountProperties(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		require.NoError(t, s.DeleteProperty(ctx, created.ID))
		_, err = s.GetProperty(ctx, created.ID)
		assert.True(t, errors.Is(err, ErrNotFound))

		// deleting again is a no-op
		assert.NoError(t, s.DeleteProperty(ctx, created.ID))
	})

	t.Run("unknown property", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetProperty(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		city := "Pune"
		_, err = s.UpdateProperty(ctx, "missing", models.PropertyPatch{City: &city})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.SetPropertyActive(ctx, "missing", true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("batched property lookup skips missing ids", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a, err := s.CreateProperty(ctx, models.Property{Name: "A"})
		require.NoError(t, err)
		b, err := s.CreateProperty(ctx, models.Property{Name: "B"})
		require.NoError(t, err)

		found, err := s.GetPropertiesByIDs(ctx, []string{a.ID, "ghost", b.ID})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, "A", found[a.ID].Name)
		assert.Equal(t, "B", found[b.ID].Name)

		empty, err := s.GetPropertiesByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("user update and upsert", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u, err := s.UpsertUserByEmail(ctx, "Guest@Example.com ")
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		assert.Equal(t, "guest@example.com", u.Fields["email"])

		again, err := s.UpsertUserByEmail(ctx, "guest@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, again.ID)

		updated, err := s.UpdateUser(ctx, u.ID, map[string]interface{}{"name": "Asha", "phone": "+91 98"})
		require.NoError(t, err)
		assert.Equal(t, "Asha", updated.Fields["name"])
		assert.Equal(t, "guest@example.com", updated.Fields["email"])

		_, err = s.UpdateUser(ctx, "nobody", map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("bookings by user", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		now := time.Now().UTC().Truncate(time.Millisecond)
		_, err := s.CreateBooking(ctx, models.Booking{UserID: "u1", PropertyID: "p1", CreatedAt: now.Add(-time.Hour)})
		require.NoError(t, err)
		_, err = s.CreateBooking(ctx, models.Booking{UserID: "u1", PropertyID: "p2", CreatedAt: now})
		require.NoError(t, err)
		_, err = s.CreateBooking(ctx, models.Booking{UserID: "u2", PropertyID: "p1"})
		require.NoError(t, err)

		list, err := s.ListBookingsByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "p2", list[0].PropertyID)
		assert.Equal(t, models.BookingPending, list[0].Status)

		all, err := s.ListBookings(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("probe documents", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.WriteProbe(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.NoError(t, s.DeleteProbe(ctx, id))
		assert.NoError(t, s.Ping(ctx))
	})
}
