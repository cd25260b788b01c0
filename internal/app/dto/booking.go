package dto

import (
	"time"

	domainbooking "unilodge/internal/domain/booking"
	domainproperty "unilodge/internal/domain/property"
)

type Booking struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	PropertyID    string    `json:"property_id"`
	RoomType      string    `json:"room_type"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalAmount   int64     `json:"total_amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Notes         string    `json:"notes,omitempty"`
	Property      *Property `json:"property,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingList struct {
	Items []Booking `json:"items"`
}

func MapBooking(b *domainbooking.Booking, prop *domainproperty.Property) Booking {
	if b == nil {
		return Booking{}
	}
	out := Booking{
		ID:            string(b.ID),
		StudentID:     string(b.StudentID),
		PropertyID:    string(b.PropertyID),
		RoomType:      string(b.RoomType),
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		TotalAmount:   b.TotalAmount,
		Currency:      b.Currency,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
	}
	if prop != nil {
		mapped := MapProperty(prop)
		out.Property = &mapped
	}
	return out
}
