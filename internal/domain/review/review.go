package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"unilodge/internal/domain/booking"
	"unilodge/internal/domain/property"
	"unilodge/internal/domain/user"
)

var (
	ErrInvalidRating   = errors.New("review: rating must be between 1 and 5")
	ErrCommentRequired = errors.New("review: comment is required")
	ErrNotFound        = errors.New("review: not found")
)

type ID string

// Review is a student's rating of a property, optionally tied to a booking.
type Review struct {
	ID         ID
	StudentID  user.ID
	PropertyID property.ID
	BookingID  booking.ID // empty when not linked to a stay
	Rating     int
	Comment    string
	Verified   bool
	CreatedAt  time.Time
}

type Repository interface {
	ListByProperty(ctx context.Context, propertyID property.ID) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID         ID
	StudentID  user.ID
	PropertyID property.ID
	BookingID  booking.ID
	Rating     int
	Comment    string
	Now        time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	comment := strings.TrimSpace(params.Comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Review{
		ID:         params.ID,
		StudentID:  params.StudentID,
		PropertyID: params.PropertyID,
		BookingID:  params.BookingID,
		Rating:     params.Rating,
		Comment:    comment,
		Verified:   params.BookingID != "",
		CreatedAt:  now.UTC(),
	}, nil
}
