package memory

import (
	"context"
	"sort"
	"sync"

	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
	domainwishlist "unilodge/internal/domain/wishlist"
)

type WishlistRepository struct {
	mu   sync.RWMutex
	byID map[string]*domainwishlist.Entry
}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{byID: make(map[string]*domainwishlist.Entry)}
}

func (r *WishlistRepository) ListByStudent(ctx context.Context, studentID domainuser.ID) ([]*domainwishlist.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domainwishlist.Entry{}
	for _, e := range r.byID {
		if e.StudentID == studentID {
			copyEntry := *e
			out = append(out, &copyEntry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *WishlistRepository) Find(ctx context.Context, studentID domainuser.ID, propertyID domainproperty.ID) (*domainwishlist.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.byID {
		if e.StudentID == studentID && e.PropertyID == propertyID {
			copyEntry := *e
			return &copyEntry, nil
		}
	}
	return nil, domainwishlist.ErrNotFound
}

func (r *WishlistRepository) Save(ctx context.Context, entry *domainwishlist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copyEntry := *entry
	r.byID[entry.ID] = &copyEntry
	return nil
}

func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domainwishlist.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var _ domainwishlist.Repository = (*WishlistRepository)(nil)
