package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "unilodge/internal/domain/booking"
	domainproperty "unilodge/internal/domain/property"
	domainreview "unilodge/internal/domain/review"
	domainuser "unilodge/internal/domain/user"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("reviews")}
}

func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainreview.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"property_id": string(propertyID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domainreview.Review{}
	for cur.Next(ctx) {
		var doc reviewDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreview.Review) error {
	doc := newReviewDocument(review)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

type reviewDocument struct {
	ID         string `bson:"_id"`
	StudentID  string `bson:"student_id"`
	PropertyID string `bson:"property_id"`
	BookingID  string `bson:"booking_id"`
	Rating     int    `bson:"rating"`
	Comment    string `bson:"comment"`
	Verified   bool   `bson:"verified"`
	CreatedAt  int64  `bson:"created_at"`
}

func newReviewDocument(rv *domainreview.Review) reviewDocument {
	return reviewDocument{
		ID:         string(rv.ID),
		StudentID:  string(rv.StudentID),
		PropertyID: string(rv.PropertyID),
		BookingID:  string(rv.BookingID),
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		Verified:   rv.Verified,
		CreatedAt:  rv.CreatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreview.Review {
	return &domainreview.Review{
		ID:         domainreview.ID(d.ID),
		StudentID:  domainuser.ID(d.StudentID),
		PropertyID: domainproperty.ID(d.PropertyID),
		BookingID:  domainbooking.ID(d.BookingID),
		Rating:     d.Rating,
		Comment:    d.Comment,
		Verified:   d.Verified,
		CreatedAt:  timestampToTime(d.CreatedAt),
	}
}
