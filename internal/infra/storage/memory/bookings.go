package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "unilodge/internal/domain/booking"
	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
)

type BookingRepository struct {
	mu   sync.RWMutex
	byID map[domainbooking.ID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{byID: make(map[domainbooking.ID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.byID[id]; ok {
		return cloneBooking(b), nil
	}
	return nil, domainbooking.ErrNotFound
}

func (r *BookingRepository) ListByStudent(ctx context.Context, studentID domainuser.ID) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool { return b.StudentID == studentID })
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool { return b.PropertyID == propertyID })
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	if booking == nil {
		return domainbooking.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *BookingRepository) filter(keep func(*domainbooking.Booking) bool) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domainbooking.Booking{}
	for _, b := range r.byID {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	if b == nil {
		return nil
	}
	copyBooking := *b
	return &copyBooking
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
