package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"unilodge/internal/domain/user"
)

var (
	ErrIDRequired       = errors.New("property: id is required")
	ErrLandlordRequired = errors.New("property: landlord is required")
	ErrTitleRequired    = errors.New("property: title is required")
	ErrCityRequired     = errors.New("property: city is required")
	ErrInvalidType      = errors.New("property: invalid type")
	ErrInvalidPrice     = errors.New("property: monthly price must be positive")
	ErrInvalidRooms     = errors.New("property: rooms available cannot exceed total")
	ErrNotFound         = errors.New("property: not found")
)

type ID string

type Type string

const (
	TypePG        Type = "pg"
	TypeApartment Type = "apartment"
	TypeHostel    Type = "hostel"
	TypeStudio    Type = "studio"
	TypeShared    Type = "shared"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
	RoomShared RoomType = "shared"
)

// Property is a landlord's accommodation listing priced per month.
type Property struct {
	ID               ID
	LandlordID       user.ID
	Title            string
	Description      string
	Type             Type
	RoomTypes        []RoomType
	City             string
	Country          string
	Address          string
	PricePerMonth    int64 // smallest currency unit
	Currency         string
	Amenities        []string
	Images           []string
	RoomsTotal       int
	RoomsAvailable   int
	Rating           float64
	ReviewCount      int
	Verified         bool
	Featured         bool
	NearbyUniversity string
	DistanceToUniKM  float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Property, error)
	Search(ctx context.Context, params SearchParams) ([]*Property, error)
	ListByLandlord(ctx context.Context, landlordID user.ID) ([]*Property, error)
	ListFeatured(ctx context.Context, limit int) ([]*Property, error)
	Save(ctx context.Context, property *Property) error
}

type CreateParams struct {
	ID               ID
	LandlordID       user.ID
	Title            string
	Description      string
	Type             Type
	RoomTypes        []RoomType
	City             string
	Country          string
	Address          string
	PricePerMonth    int64
	Currency         string
	Amenities        []string
	Images           []string
	RoomsTotal       int
	RoomsAvailable   int
	NearbyUniversity string
	DistanceToUniKM  float64
	Now              time.Time
}

func New(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.LandlordID)) == "" {
		return nil, ErrLandlordRequired
	}
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	city := strings.TrimSpace(params.City)
	if city == "" {
		return nil, ErrCityRequired
	}
	if !validType(params.Type) {
		return nil, ErrInvalidType
	}
	if params.PricePerMonth <= 0 {
		return nil, ErrInvalidPrice
	}
	if params.RoomsTotal < 1 || params.RoomsAvailable < 0 || params.RoomsAvailable > params.RoomsTotal {
		return nil, ErrInvalidRooms
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "EUR"
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Property{
		ID:               params.ID,
		LandlordID:       params.LandlordID,
		Title:            title,
		Description:      strings.TrimSpace(params.Description),
		Type:             params.Type,
		RoomTypes:        append([]RoomType(nil), params.RoomTypes...),
		City:             city,
		Country:          strings.TrimSpace(params.Country),
		Address:          strings.TrimSpace(params.Address),
		PricePerMonth:    params.PricePerMonth,
		Currency:         currency,
		Amenities:        append([]string(nil), params.Amenities...),
		Images:           append([]string(nil), params.Images...),
		RoomsTotal:       params.RoomsTotal,
		RoomsAvailable:   params.RoomsAvailable,
		NearbyUniversity: strings.TrimSpace(params.NearbyUniversity),
		DistanceToUniKM:  params.DistanceToUniKM,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

type UpdateParams struct {
	Title            string
	Description      string
	Type             Type
	RoomTypes        []RoomType
	City             string
	Country          string
	Address          string
	PricePerMonth    int64
	Currency         string
	Amenities        []string
	RoomsTotal       int
	RoomsAvailable   int
	NearbyUniversity string
	DistanceToUniKM  float64
	Now              time.Time
}

// Update replaces the listing's editable fields, holding them to the same
// rules as New. Images, rating and verification state are untouched.
func (p *Property) Update(params UpdateParams) error {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return ErrTitleRequired
	}
	city := strings.TrimSpace(params.City)
	if city == "" {
		return ErrCityRequired
	}
	if !validType(params.Type) {
		return ErrInvalidType
	}
	if params.PricePerMonth <= 0 {
		return ErrInvalidPrice
	}
	if params.RoomsTotal < 1 || params.RoomsAvailable < 0 || params.RoomsAvailable > params.RoomsTotal {
		return ErrInvalidRooms
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = p.Currency
	}

	p.Title = title
	p.Description = strings.TrimSpace(params.Description)
	p.Type = params.Type
	p.RoomTypes = append([]RoomType(nil), params.RoomTypes...)
	p.City = city
	p.Country = strings.TrimSpace(params.Country)
	p.Address = strings.TrimSpace(params.Address)
	p.PricePerMonth = params.PricePerMonth
	p.Currency = currency
	p.Amenities = append([]string(nil), params.Amenities...)
	p.RoomsTotal = params.RoomsTotal
	p.RoomsAvailable = params.RoomsAvailable
	p.NearbyUniversity = strings.TrimSpace(params.NearbyUniversity)
	p.DistanceToUniKM = params.DistanceToUniKM
	p.touch(params.Now)
	return nil
}

// RecordReview folds a new rating into the running aggregate.
func (p *Property) RecordReview(rating int, now time.Time) {
	total := p.Rating*float64(p.ReviewCount) + float64(rating)
	p.ReviewCount++
	p.Rating = total / float64(p.ReviewCount)
	p.touch(now)
}

func (p *Property) AddImage(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	p.Images = append(p.Images, url)
	p.touch(now)
}

func (p *Property) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	p.UpdatedAt = now.UTC()
}

func validType(t Type) bool {
	switch t {
	case TypePG, TypeApartment, TypeHostel, TypeStudio, TypeShared:
		return true
	}
	return false
}
