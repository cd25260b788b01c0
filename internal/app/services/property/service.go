package property

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
	"unilodge/internal/infra/storage/s3"
)

var (
	ErrNotOwner        = errors.New("property: not the listing owner")
	ErrUploadsDisabled = errors.New("property: photo storage not configured")
)

// Service wraps the property catalog for handlers: search, landlord CRUD and
// photo storage.
type Service struct {
	Properties domainproperty.Repository
	Uploader   s3.Uploader
	Logger     *slog.Logger
}

func (s *Service) Catalog(ctx context.Context, params domainproperty.SearchParams) ([]*domainproperty.Property, error) {
	return s.Properties.Search(ctx, params.Normalized())
}

func (s *Service) ByID(ctx context.Context, id string) (*domainproperty.Property, error) {
	return s.Properties.ByID(ctx, domainproperty.ID(strings.TrimSpace(id)))
}

func (s *Service) Featured(ctx context.Context, limit int) ([]*domainproperty.Property, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.Properties.ListFeatured(ctx, limit)
}

func (s *Service) ListByLandlord(ctx context.Context, landlordID string) ([]*domainproperty.Property, error) {
	return s.Properties.ListByLandlord(ctx, domainuser.ID(landlordID))
}

type CreateParams struct {
	LandlordID       string
	Title            string
	Description      string
	Type             string
	RoomTypes        []string
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
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainproperty.Property, error) {
	roomTypes := make([]domainproperty.RoomType, 0, len(params.RoomTypes))
	for _, rt := range params.RoomTypes {
		roomTypes = append(roomTypes, domainproperty.RoomType(strings.ToLower(strings.TrimSpace(rt))))
	}
	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:               domainproperty.ID(uuid.NewString()),
		LandlordID:       domainuser.ID(params.LandlordID),
		Title:            params.Title,
		Description:      params.Description,
		Type:             domainproperty.Type(strings.ToLower(strings.TrimSpace(params.Type))),
		RoomTypes:        roomTypes,
		City:             params.City,
		Country:          params.Country,
		Address:          params.Address,
		PricePerMonth:    params.PricePerMonth,
		Currency:         params.Currency,
		Amenities:        params.Amenities,
		RoomsTotal:       params.RoomsTotal,
		RoomsAvailable:   params.RoomsAvailable,
		NearbyUniversity: params.NearbyUniversity,
		DistanceToUniKM:  params.DistanceToUniKM,
		Now:              time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Properties.Save(ctx, prop); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("property listed", "property_id", prop.ID, "landlord_id", prop.LandlordID, "city", prop.City)
	}
	return prop, nil
}

type UpdateParams struct {
	Title            string
	Description      string
	Type             string
	RoomTypes        []string
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
}

// Update replaces a listing's editable fields. Only the owning landlord may
// edit; photos and the review aggregate are managed elsewhere.
func (s *Service) Update(ctx context.Context, propertyID, landlordID string, params UpdateParams) (*domainproperty.Property, error) {
	prop, err := s.Properties.ByID(ctx, domainproperty.ID(strings.TrimSpace(propertyID)))
	if err != nil {
		return nil, err
	}
	if string(prop.LandlordID) != landlordID {
		return nil, ErrNotOwner
	}
	roomTypes := make([]domainproperty.RoomType, 0, len(params.RoomTypes))
	for _, rt := range params.RoomTypes {
		roomTypes = append(roomTypes, domainproperty.RoomType(strings.ToLower(strings.TrimSpace(rt))))
	}
	err = prop.Update(domainproperty.UpdateParams{
		Title:            params.Title,
		Description:      params.Description,
		Type:             domainproperty.Type(strings.ToLower(strings.TrimSpace(params.Type))),
		RoomTypes:        roomTypes,
		City:             params.City,
		Country:          params.Country,
		Address:          params.Address,
		PricePerMonth:    params.PricePerMonth,
		Currency:         params.Currency,
		Amenities:        params.Amenities,
		RoomsTotal:       params.RoomsTotal,
		RoomsAvailable:   params.RoomsAvailable,
		NearbyUniversity: params.NearbyUniversity,
		DistanceToUniKM:  params.DistanceToUniKM,
		Now:              time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Properties.Save(ctx, prop); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("property updated", "property_id", prop.ID, "landlord_id", prop.LandlordID)
	}
	return prop, nil
}

// AttachPhoto uploads one image to object storage and appends its public URL
// to the listing. Only the owning landlord may attach photos.
func (s *Service) AttachPhoto(ctx context.Context, propertyID, landlordID, filename string, content io.Reader, contentType string) (*domainproperty.Property, error) {
	if s.Uploader == nil {
		return nil, ErrUploadsDisabled
	}
	prop, err := s.Properties.ByID(ctx, domainproperty.ID(propertyID))
	if err != nil {
		return nil, err
	}
	if string(prop.LandlordID) != landlordID {
		return nil, ErrNotOwner
	}
	key := s3.PropertyPhotoKey(string(prop.ID), filename)
	url, err := s.Uploader.Upload(ctx, key, content, contentType)
	if err != nil {
		if errors.Is(err, s3.ErrDisabled) {
			return nil, ErrUploadsDisabled
		}
		return nil, err
	}
	prop.AddImage(url, time.Now())
	if err := s.Properties.Save(ctx, prop); err != nil {
		return nil, err
	}
	return prop, nil
}
