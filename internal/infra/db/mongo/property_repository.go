package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("properties")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PropertyRepository) Search(ctx context.Context, params domainproperty.SearchParams) ([]*domainproperty.Property, error) {
	params = params.Normalized()
	filter := bson.M{}
	if params.City != "" {
		filter["city_lower"] = bson.M{"$regex": params.City}
	}
	if params.Country != "" {
		filter["country_lower"] = params.Country
	}
	if params.Type != "" {
		filter["type"] = string(params.Type)
	}
	if params.RoomType != "" {
		filter["room_types"] = string(params.RoomType)
	}
	price := bson.M{}
	if params.PriceMin > 0 {
		price["$gte"] = params.PriceMin
	}
	if params.PriceMax > 0 {
		price["$lte"] = params.PriceMax
	}
	if len(price) > 0 {
		filter["price_per_month"] = price
	}
	if params.Query != "" {
		filter["search_blob"] = bson.M{"$regex": params.Query}
	}
	opts := options.Find().
		SetSort(sortSpec(params.Sort)).
		SetSkip(int64(params.Offset)).
		SetLimit(int64(params.Limit))
	return r.list(ctx, filter, opts)
}

func (r *PropertyRepository) ListByLandlord(ctx context.Context, landlordID domainuser.ID) ([]*domainproperty.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.list(ctx, bson.M{"landlord_id": string(landlordID)}, opts)
}

func (r *PropertyRepository) ListFeatured(ctx context.Context, limit int) ([]*domainproperty.Property, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit))
	return r.list(ctx, bson.M{"featured": true}, opts)
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	doc := newPropertyDocument(p)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *PropertyRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainproperty.Property, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domainproperty.Property{}
	for cur.Next(ctx) {
		var doc propertyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func sortSpec(sort domainproperty.Sort) bson.D {
	switch sort {
	case domainproperty.SortPriceAsc:
		return bson.D{{Key: "price_per_month", Value: 1}}
	case domainproperty.SortPriceDesc:
		return bson.D{{Key: "price_per_month", Value: -1}}
	case domainproperty.SortRating:
		return bson.D{{Key: "rating", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

type propertyDocument struct {
	ID               string   `bson:"_id"`
	LandlordID       string   `bson:"landlord_id"`
	Title            string   `bson:"title"`
	Description      string   `bson:"description"`
	Type             string   `bson:"type"`
	RoomTypes        []string `bson:"room_types"`
	City             string   `bson:"city"`
	CityLower        string   `bson:"city_lower"`
	Country          string   `bson:"country"`
	CountryLower     string   `bson:"country_lower"`
	Address          string   `bson:"address"`
	PricePerMonth    int64    `bson:"price_per_month"`
	Currency         string   `bson:"currency"`
	Amenities        []string `bson:"amenities"`
	Images           []string `bson:"images"`
	RoomsTotal       int      `bson:"rooms_total"`
	RoomsAvailable   int      `bson:"rooms_available"`
	Rating           float64  `bson:"rating"`
	ReviewCount      int      `bson:"review_count"`
	Verified         bool     `bson:"verified"`
	Featured         bool     `bson:"featured"`
	NearbyUniversity string   `bson:"nearby_university"`
	DistanceToUniKM  float64  `bson:"distance_to_uni_km"`
	SearchBlob       string   `bson:"search_blob"`
	CreatedAt        int64    `bson:"created_at"`
	UpdatedAt        int64    `bson:"updated_at"`
}

func newPropertyDocument(p *domainproperty.Property) propertyDocument {
	roomTypes := make([]string, 0, len(p.RoomTypes))
	for _, rt := range p.RoomTypes {
		roomTypes = append(roomTypes, string(rt))
	}
	return propertyDocument{
		ID:               string(p.ID),
		LandlordID:       string(p.LandlordID),
		Title:            p.Title,
		Description:      p.Description,
		Type:             string(p.Type),
		RoomTypes:        roomTypes,
		City:             p.City,
		CityLower:        lower(p.City),
		Country:          p.Country,
		CountryLower:     lower(p.Country),
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
		SearchBlob:       lower(p.Title + " " + p.City + " " + p.NearbyUniversity),
		CreatedAt:        p.CreatedAt.UnixMilli(),
		UpdatedAt:        p.UpdatedAt.UnixMilli(),
	}
}

func (d propertyDocument) toAggregate() *domainproperty.Property {
	roomTypes := make([]domainproperty.RoomType, 0, len(d.RoomTypes))
	for _, rt := range d.RoomTypes {
		roomTypes = append(roomTypes, domainproperty.RoomType(rt))
	}
	return &domainproperty.Property{
		ID:               domainproperty.ID(d.ID),
		LandlordID:       domainuser.ID(d.LandlordID),
		Title:            d.Title,
		Description:      d.Description,
		Type:             domainproperty.Type(d.Type),
		RoomTypes:        roomTypes,
		City:             d.City,
		Country:          d.Country,
		Address:          d.Address,
		PricePerMonth:    d.PricePerMonth,
		Currency:         d.Currency,
		Amenities:        d.Amenities,
		Images:           d.Images,
		RoomsTotal:       d.RoomsTotal,
		RoomsAvailable:   d.RoomsAvailable,
		Rating:           d.Rating,
		ReviewCount:      d.ReviewCount,
		Verified:         d.Verified,
		Featured:         d.Featured,
		NearbyUniversity: d.NearbyUniversity,
		DistanceToUniKM:  d.DistanceToUniKM,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
	}
}
