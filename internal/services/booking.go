package services

import (
	"context"
	"fmt"
	"strings"

	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/storage"
)

type BookingService struct {
	store      storage.DocumentStore
	events     EventPublisher
	instanceID string
	log        *logger.Logger
}

func NewBookingService(store storage.DocumentStore, events EventPublisher, instanceID string, log *logger.Logger) *BookingService {
	return &BookingService{store: store, events: events, instanceID: instanceID, log: log}
}

// ListForUser returns the user's bookings, each with its property embedded.
// Properties are fetched in one batched lookup; a booking whose property no
// longer exists gets a nil Property. The result keeps booking order.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]models.BookingWithProperty, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, newError(ErrValidation, "userId is required")
	}

	bookings, err := s.store.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for %s: %w", userID, err)
	}

	out := make([]models.BookingWithProperty, len(bookings))
	if len(bookings) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.PropertyID]; ok || b.PropertyID == "" {
			continue
		}
		seen[b.PropertyID] = struct{}{}
		ids = append(ids, b.PropertyID)
	}

	props, err := s.store.GetPropertiesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked properties: %w", err)
	}

	for i, b := range bookings {
		out[i].Booking = b
		if p, ok := props[b.PropertyID]; ok {
			p := p
			out[i].Property = &p
		}
	}

	s.log.LogDatabase("QUERY", "bookings", fmt.Sprintf("Loaded %d bookings over %d properties for user %s", len(bookings), len(ids), userID))
	return out, nil
}

func (s *BookingService) Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.PropertyID) == "" {
		return nil, newError(ErrValidation, "userId and propertyId are required")
	}
	if req.CheckIn != nil && req.CheckOut != nil && !req.CheckOut.After(*req.CheckIn) {
		return nil, newError(ErrValidation, "checkOut must be after checkIn")
	}
	if req.Guests < 0 || req.Amount < 0 {
		return nil, newError(ErrValidation, "guests and amount cannot be negative")
	}

	booking, err := s.store.CreateBooking(ctx, models.Booking{
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Guests:     req.Guests,
		Amount:     req.Amount,
		OrderID:    req.OrderID,
		Status:     models.BookingPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.LogDatabase("INSERT", "bookings", fmt.Sprintf("Booking %s created for user %s", booking.ID, booking.UserID))
	publishEvent(s.events, s.log, s.instanceID, models.EventBookingCreated, booking.ID, booking)
	return booking, nil
}

// ListAll pages through every booking, newest first.
func (s *BookingService) ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	if limit < 0 || offset < 0 {
		return nil, newError(ErrValidation, "limit and offset must be non-negative")
	}
	bookings, err := s.store.ListBookings(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
