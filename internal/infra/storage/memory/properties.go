package memory

import (
	"context"
	"sort"
	"sync"

	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
)

// PropertyRepository keeps listings in memory and evaluates search filters
// with the domain matcher.
type PropertyRepository struct {
	mu   sync.RWMutex
	byID map[domainproperty.ID]*domainproperty.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{byID: make(map[domainproperty.ID]*domainproperty.Property)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if prop, ok := r.byID[id]; ok {
		return cloneProperty(prop), nil
	}
	return nil, domainproperty.ErrNotFound
}

func (r *PropertyRepository) Search(ctx context.Context, params domainproperty.SearchParams) ([]*domainproperty.Property, error) {
	params = params.Normalized()
	r.mu.RLock()
	matched := []*domainproperty.Property{}
	for _, prop := range r.byID {
		if params.Matches(prop) {
			matched = append(matched, cloneProperty(prop))
		}
	}
	r.mu.RUnlock()

	sortProperties(matched, params.Sort)
	if params.Offset >= len(matched) {
		return []*domainproperty.Property{}, nil
	}
	matched = matched[params.Offset:]
	if len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (r *PropertyRepository) ListByLandlord(ctx context.Context, landlordID domainuser.ID) ([]*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domainproperty.Property{}
	for _, prop := range r.byID {
		if prop.LandlordID == landlordID {
			out = append(out, cloneProperty(prop))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PropertyRepository) ListFeatured(ctx context.Context, limit int) ([]*domainproperty.Property, error) {
	r.mu.RLock()
	out := []*domainproperty.Property{}
	for _, prop := range r.byID {
		if prop.Featured {
			out = append(out, cloneProperty(prop))
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PropertyRepository) Save(ctx context.Context, prop *domainproperty.Property) error {
	if prop == nil {
		return domainproperty.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[prop.ID] = cloneProperty(prop)
	return nil
}

func sortProperties(props []*domainproperty.Property, by domainproperty.Sort) {
	sort.SliceStable(props, func(i, j int) bool {
		switch by {
		case domainproperty.SortPriceAsc:
			return props[i].PricePerMonth < props[j].PricePerMonth
		case domainproperty.SortPriceDesc:
			return props[i].PricePerMonth > props[j].PricePerMonth
		case domainproperty.SortRating:
			return props[i].Rating > props[j].Rating
		default:
			return props[i].CreatedAt.After(props[j].CreatedAt)
		}
	})
}

func cloneProperty(p *domainproperty.Property) *domainproperty.Property {
	if p == nil {
		return nil
	}
	copyProp := *p
	copyProp.RoomTypes = append([]domainproperty.RoomType(nil), p.RoomTypes...)
	copyProp.Amenities = append([]string(nil), p.Amenities...)
	copyProp.Images = append([]string(nil), p.Images...)
	return &copyProp
}

var _ domainproperty.Repository = (*PropertyRepository)(nil)
