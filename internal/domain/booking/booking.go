package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"unilodge/internal/domain/property"
	"unilodge/internal/domain/user"
)

var (
	ErrIDRequired       = errors.New("booking: id is required")
	ErrStudentRequired  = errors.New("booking: student is required")
	ErrPropertyRequired = errors.New("booking: property is required")
	ErrInvalidRoomType  = errors.New("booking: room type not offered by property")
	ErrInvalidDates     = errors.New("booking: check-out must be after check-in")
	ErrInvalidState     = errors.New("booking: invalid state transition")
	ErrNotFound         = errors.New("booking: not found")
)

type ID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Booking reserves a room in a property for a student between two dates.
// Payment is recorded as a status only; no processor is integrated.
type Booking struct {
	ID            ID
	StudentID     user.ID
	PropertyID    property.ID
	RoomType      property.RoomType
	CheckIn       time.Time
	CheckOut      time.Time
	TotalAmount   int64
	Currency      string
	Status        Status
	PaymentStatus PaymentStatus
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	ListByStudent(ctx context.Context, studentID user.ID) ([]*Booking, error)
	ListByProperty(ctx context.Context, propertyID property.ID) ([]*Booking, error)
	Save(ctx context.Context, booking *Booking) error
}

type CreateParams struct {
	ID          ID
	StudentID   user.ID
	PropertyID  property.ID
	RoomType    property.RoomType
	CheckIn     time.Time
	CheckOut    time.Time
	TotalAmount int64
	Currency    string
	Notes       string
	Now         time.Time
}

func New(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.StudentID)) == "" {
		return nil, ErrStudentRequired
	}
	if strings.TrimSpace(string(params.PropertyID)) == "" {
		return nil, ErrPropertyRequired
	}
	if params.CheckIn.IsZero() || params.CheckOut.IsZero() || !params.CheckOut.After(params.CheckIn) {
		return nil, ErrInvalidDates
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "EUR"
	}
	return &Booking{
		ID:            params.ID,
		StudentID:     params.StudentID,
		PropertyID:    params.PropertyID,
		RoomType:      params.RoomType,
		CheckIn:       params.CheckIn.UTC(),
		CheckOut:      params.CheckOut.UTC(),
		TotalAmount:   params.TotalAmount,
		Currency:      currency,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		Notes:         strings.TrimSpace(params.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Months returns the number of started 30-day periods between check-in and
// check-out, used for the monthly price total.
func Months(checkIn, checkOut time.Time) int {
	if !checkOut.After(checkIn) {
		return 0
	}
	days := int(checkOut.Sub(checkIn).Hours() / 24)
	months := days / 30
	if days%30 != 0 {
		months++
	}
	return months
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.touch(now)
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	switch b.Status {
	case StatusPending, StatusConfirmed:
		b.Status = StatusCancelled
		b.touch(now)
		return nil
	default:
		return ErrInvalidState
	}
}

func (b *Booking) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	b.UpdatedAt = now.UTC()
}
