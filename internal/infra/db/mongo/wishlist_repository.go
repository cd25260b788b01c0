package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
	domainwishlist "unilodge/internal/domain/wishlist"
)

type WishlistRepository struct {
	col *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{col: db.Collection("wishlists")}
}

func (r *WishlistRepository) ListByStudent(ctx context.Context, studentID domainuser.ID) ([]*domainwishlist.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"student_id": string(studentID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domainwishlist.Entry{}
	for cur.Next(ctx) {
		var doc wishlistDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *WishlistRepository) Find(ctx context.Context, studentID domainuser.ID, propertyID domainproperty.ID) (*domainwishlist.Entry, error) {
	filter := bson.M{"student_id": string(studentID), "property_id": string(propertyID)}
	var doc wishlistDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainwishlist.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *WishlistRepository) Save(ctx context.Context, entry *domainwishlist.Entry) error {
	doc := newWishlistDocument(entry)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainwishlist.ErrNotFound
	}
	return nil
}

type wishlistDocument struct {
	ID         string `bson:"_id"`
	StudentID  string `bson:"student_id"`
	PropertyID string `bson:"property_id"`
	CreatedAt  int64  `bson:"created_at"`
}

func newWishlistDocument(e *domainwishlist.Entry) wishlistDocument {
	return wishlistDocument{
		ID:         e.ID,
		StudentID:  string(e.StudentID),
		PropertyID: string(e.PropertyID),
		CreatedAt:  e.CreatedAt.UnixMilli(),
	}
}

func (d wishlistDocument) toAggregate() *domainwishlist.Entry {
	return &domainwishlist.Entry{
		ID:         d.ID,
		StudentID:  domainuser.ID(d.StudentID),
		PropertyID: domainproperty.ID(d.PropertyID),
		CreatedAt:  timestampToTime(d.CreatedAt),
	}
}
