package dto

import (
	"time"

	domainproperty "unilodge/internal/domain/property"
)

type Property struct {
	ID               string    `json:"id"`
	LandlordID       string    `json:"landlord_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Type             string    `json:"type"`
	RoomTypes        []string  `json:"room_types"`
	City             string    `json:"city"`
	Country          string    `json:"country,omitempty"`
	Address          string    `json:"address,omitempty"`
	PricePerMonth    int64     `json:"price_per_month"`
	Currency         string    `json:"currency"`
	Amenities        []string  `json:"amenities,omitempty"`
	Images           []string  `json:"images,omitempty"`
	RoomsTotal       int       `json:"rooms_total"`
	RoomsAvailable   int       `json:"rooms_available"`
	Rating           float64   `json:"rating"`
	ReviewCount      int       `json:"review_count"`
	Verified         bool      `json:"verified"`
	Featured         bool      `json:"featured"`
	NearbyUniversity string    `json:"nearby_university,omitempty"`
	DistanceToUniKM  float64   `json:"distance_to_uni_km,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type PropertyList struct {
	Items []Property `json:"items"`
}

func MapProperty(p *domainproperty.Property) Property {
	if p == nil {
		return Property{}
	}
	roomTypes := make([]string, 0, len(p.RoomTypes))
	for _, rt := range p.RoomTypes {
		roomTypes = append(roomTypes, string(rt))
	}
	return Property{
		ID:               string(p.ID),
		LandlordID:       string(p.LandlordID),
		Title:            p.Title,
		Description:      p.Description,
		Type:             string(p.Type),
		RoomTypes:        roomTypes,
		City:             p.City,
		Country:          p.Country,
		Address:          p.Address,
		PricePerMonth:    p.PricePerMonth,
		Currency:         p.Currency,
		Amenities:        p.Amenities,
		Images:           p.Images,
		RoomsTotal:       p.RoomsTotal,
		RoomsAvailable:   p.RoomsAvailable,
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		Verified:         p.Verified,
		Featured:         p.Featured,
		NearbyUniversity: p.NearbyUniversity,
		DistanceToUniKM:  p.DistanceToUniKM,
		CreatedAt:        p.CreatedAt,
	}
}

func MapProperties(props []*domainproperty.Property) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		out = append(out, MapProperty(p))
	}
	return out
}
