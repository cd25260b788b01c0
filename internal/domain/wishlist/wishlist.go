package wishlist

import (
	"context"
	"errors"
	"time"

	"unilodge/internal/domain/property"
	"unilodge/internal/domain/user"
)

var ErrNotFound = errors.New("wishlist: entry not found")

// Entry marks a property a student saved for later.
type Entry struct {
	ID         string
	StudentID  user.ID
	PropertyID property.ID
	CreatedAt  time.Time
}

type Repository interface {
	ListByStudent(ctx context.Context, studentID user.ID) ([]*Entry, error)
	Find(ctx context.Context, studentID user.ID, propertyID property.ID) (*Entry, error)
	Save(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id string) error
}
