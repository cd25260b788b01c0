package memory

import (
	"context"
	"sort"
	"sync"

	domainproperty "unilodge/internal/domain/property"
	domainreview "unilodge/internal/domain/review"
)

type ReviewRepository struct {
	mu   sync.RWMutex
	byID map[domainreview.ID]*domainreview.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{byID: make(map[domainreview.ID]*domainreview.Review)}
}

func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domainreview.Review{}
	for _, rv := range r.byID {
		if rv.PropertyID == propertyID {
			copyReview := *rv
			out = append(out, &copyReview)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copyReview := *review
	r.byID[review.ID] = &copyReview
	return nil
}

var _ domainreview.Repository = (*ReviewRepository)(nil)
