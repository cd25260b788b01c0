package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainbooking "unilodge/internal/domain/booking"
	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
)

// Service creates and lists bookings. Payment stays a stored status; the
// total is computed server-side from the property's monthly price so clients
// cannot set their own amount.
type Service struct {
	Bookings   domainbooking.Repository
	Properties domainproperty.Repository
	Logger     *slog.Logger
}

type CreateParams struct {
	StudentID  string
	PropertyID string
	RoomType   string
	CheckIn    time.Time
	CheckOut   time.Time
	Notes      string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainbooking.Booking, error) {
	prop, err := s.Properties.ByID(ctx, domainproperty.ID(strings.TrimSpace(params.PropertyID)))
	if err != nil {
		return nil, err
	}
	roomType := domainproperty.RoomType(strings.ToLower(strings.TrimSpace(params.RoomType)))
	if !offersRoomType(prop, roomType) {
		return nil, domainbooking.ErrInvalidRoomType
	}
	months := domainbooking.Months(params.CheckIn, params.CheckOut)
	if months == 0 {
		return nil, domainbooking.ErrInvalidDates
	}
	bk, err := domainbooking.New(domainbooking.CreateParams{
		ID:          domainbooking.ID(uuid.NewString()),
		StudentID:   domainuser.ID(params.StudentID),
		PropertyID:  prop.ID,
		RoomType:    roomType,
		CheckIn:     params.CheckIn,
		CheckOut:    params.CheckOut,
		TotalAmount: int64(months) * prop.PricePerMonth,
		Currency:    prop.Currency,
		Notes:       params.Notes,
		Now:         time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, bk); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("booking requested", "booking_id", bk.ID, "property_id", bk.PropertyID, "student_id", bk.StudentID, "months", months)
	}
	return bk, nil
}

// ListForStudent returns the student's bookings with their properties joined.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]*domainbooking.Booking, map[string]*domainproperty.Property, error) {
	bookings, err := s.Bookings.ListByStudent(ctx, domainuser.ID(studentID))
	if err != nil {
		return nil, nil, err
	}
	properties := make(map[string]*domainproperty.Property)
	for _, bk := range bookings {
		id := string(bk.PropertyID)
		if _, ok := properties[id]; ok {
			continue
		}
		prop, err := s.Properties.ByID(ctx, bk.PropertyID)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("booking property lookup failed", "property_id", id, "error", err)
			}
			continue
		}
		properties[id] = prop
	}
	return bookings, properties, nil
}

// ListForProperty returns a property's bookings for its owning landlord.
func (s *Service) ListForProperty(ctx context.Context, propertyID, landlordID string) ([]*domainbooking.Booking, error) {
	prop, err := s.Properties.ByID(ctx, domainproperty.ID(propertyID))
	if err != nil {
		return nil, err
	}
	if string(prop.LandlordID) != landlordID {
		return nil, domainbooking.ErrNotFound
	}
	return s.Bookings.ListByProperty(ctx, prop.ID)
}

func offersRoomType(prop *domainproperty.Property, roomType domainproperty.RoomType) bool {
	if len(prop.RoomTypes) == 0 {
		return true
	}
	for _, rt := range prop.RoomTypes {
		if rt == roomType {
			return true
		}
	}
	return false
}
