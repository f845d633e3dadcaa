package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID         string        `json:"id" bson:"_id"`
	UserID     string        `json:"userId" bson:"user_id"`
	PropertyID string        `json:"propertyId" bson:"property_id"`
	CheckIn    *time.Time    `json:"checkIn,omitempty" bson:"check_in,omitempty"`
	CheckOut   *time.Time    `json:"checkOut,omitempty" bson:"check_out,omitempty"`
	Guests     int           `json:"guests,omitempty" bson:"guests,omitempty"`
	Amount     float64       `json:"amount,omitempty" bson:"amount,omitempty"`
	Status     BookingStatus `json:"status" bson:"status"`
	OrderID    string        `json:"orderId,omitempty" bson:"order_id,omitempty"`
	PaymentID  string        `json:"paymentId,omitempty" bson:"payment_id,omitempty"`
	CreatedAt  time.Time     `json:"createdAt" bson:"created_at"`
}

// BookingWithProperty is a booking with its property joined in. Property is
// nil when the referenced property does not exist.
type BookingWithProperty struct {
	Booking
	Property *Property `json:"property"`
}

type CreateBookingRequest struct {
	UserID     string     `json:"userId" binding:"required"`
	PropertyID string     `json:"propertyId" binding:"required"`
	CheckIn    *time.Time `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
	Guests     int        `json:"guests" binding:"gte=0"`
	Amount     float64    `json:"amount" binding:"gte=0"`
	OrderID    string     `json:"orderId"`
}
