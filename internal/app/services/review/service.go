package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainbooking "unilodge/internal/domain/booking"
	domainproperty "unilodge/internal/domain/property"
	domainreview "unilodge/internal/domain/review"
	domainuser "unilodge/internal/domain/user"
)

// Service stores reviews and keeps the property rating aggregate in step.
type Service struct {
	Reviews    domainreview.Repository
	Properties domainproperty.Repository
	Users      domainuser.Repository
	Logger     *slog.Logger
}

type SubmitParams struct {
	StudentID  string
	PropertyID string
	BookingID  string
	Rating     int
	Comment    string
}

func (s *Service) Submit(ctx context.Context, params SubmitParams) (*domainreview.Review, error) {
	prop, err := s.Properties.ByID(ctx, domainproperty.ID(params.PropertyID))
	if err != nil {
		return nil, err
	}
	rev, err := domainreview.Submit(domainreview.SubmitParams{
		ID:         domainreview.ID(uuid.NewString()),
		StudentID:  domainuser.ID(params.StudentID),
		PropertyID: prop.ID,
		BookingID:  domainbooking.ID(params.BookingID),
		Rating:     params.Rating,
		Comment:    params.Comment,
		Now:        time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Reviews.Save(ctx, rev); err != nil {
		return nil, err
	}
	prop.RecordReview(rev.Rating, rev.CreatedAt)
	if err := s.Properties.Save(ctx, prop); err != nil && s.Logger != nil {
		// The review exists; the aggregate catches up on the next save.
		s.Logger.Warn("rating aggregate update failed", "property_id", prop.ID, "error", err)
	}
	return rev, nil
}

// WithAuthor pairs a review with its author's public profile.
type WithAuthor struct {
	Review *domainreview.Review
	Author *domainuser.User
}

func (s *Service) ListByProperty(ctx context.Context, propertyID string) ([]WithAuthor, error) {
	reviews, err := s.Reviews.ListByProperty(ctx, domainproperty.ID(propertyID))
	if err != nil {
		return nil, err
	}
	out := make([]WithAuthor, 0, len(reviews))
	for _, rev := range reviews {
		entry := WithAuthor{Review: rev}
		author, err := s.Users.ByID(ctx, rev.StudentID)
		if err == nil {
			entry.Author = author
		} else if !errors.Is(err, domainuser.ErrNotFound) && s.Logger != nil {
			s.Logger.Warn("review author lookup failed", "user_id", rev.StudentID, "error", err)
		}
		out = append(out, entry)
	}
	return out, nil
}
