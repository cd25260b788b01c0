package wishlist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
	domainwishlist "unilodge/internal/domain/wishlist"
)

// Service toggles and lists a student's saved properties.
type Service struct {
	Wishlists  domainwishlist.Repository
	Properties domainproperty.Repository
	Logger     *slog.Logger
}

// Toggle saves the property when absent and removes it when present,
// returning whether the property is wishlisted afterwards.
func (s *Service) Toggle(ctx context.Context, studentID, propertyID string) (bool, error) {
	if _, err := s.Properties.ByID(ctx, domainproperty.ID(propertyID)); err != nil {
		return false, err
	}
	existing, err := s.Wishlists.Find(ctx, domainuser.ID(studentID), domainproperty.ID(propertyID))
	switch {
	case err == nil:
		if err := s.Wishlists.Delete(ctx, existing.ID); err != nil {
			return true, err
		}
		return false, nil
	case errors.Is(err, domainwishlist.ErrNotFound):
		entry := &domainwishlist.Entry{
			ID:         uuid.NewString(),
			StudentID:  domainuser.ID(studentID),
			PropertyID: domainproperty.ID(propertyID),
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.Wishlists.Save(ctx, entry); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// List returns the wishlisted properties, newest first, skipping entries
// whose property has meanwhile disappeared.
func (s *Service) List(ctx context.Context, studentID string) ([]*domainproperty.Property, error) {
	entries, err := s.Wishlists.ListByStudent(ctx, domainuser.ID(studentID))
	if err != nil {
		return nil, err
	}
	out := make([]*domainproperty.Property, 0, len(entries))
	for _, entry := range entries {
		prop, err := s.Properties.ByID(ctx, entry.PropertyID)
		if err != nil {
			if !errors.Is(err, domainproperty.ErrNotFound) && s.Logger != nil {
				s.Logger.Warn("wishlist property lookup failed", "property_id", entry.PropertyID, "error", err)
			}
			continue
		}
		out = append(out, prop)
	}
	return out, nil
}
