package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "unilodge/internal/domain/booking"
	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) ListByStudent(ctx context.Context, studentID domainuser.ID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"student_id": string(studentID)})
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"property_id": string(propertyID)})
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domainbooking.Booking{}
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID            string `bson:"_id"`
	StudentID     string `bson:"student_id"`
	PropertyID    string `bson:"property_id"`
	RoomType      string `bson:"room_type"`
	CheckIn       int64  `bson:"check_in"`
	CheckOut      int64  `bson:"check_out"`
	TotalAmount   int64  `bson:"total_amount"`
	Currency      string `bson:"currency"`
	Status        string `bson:"status"`
	PaymentStatus string `bson:"payment_status"`
	Notes         string `bson:"notes"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:            string(b.ID),
		StudentID:     string(b.StudentID),
		PropertyID:    string(b.PropertyID),
		RoomType:      string(b.RoomType),
		CheckIn:       b.CheckIn.UnixMilli(),
		CheckOut:      b.CheckOut.UnixMilli(),
		TotalAmount:   b.TotalAmount,
		Currency:      b.Currency,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt.UnixMilli(),
		UpdatedAt:     b.UpdatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:            domainbooking.ID(d.ID),
		StudentID:     domainuser.ID(d.StudentID),
		PropertyID:    domainproperty.ID(d.PropertyID),
		RoomType:      domainproperty.RoomType(d.RoomType),
		CheckIn:       timestampToTime(d.CheckIn),
		CheckOut:      timestampToTime(d.CheckOut),
		TotalAmount:   d.TotalAmount,
		Currency:      d.Currency,
		Status:        domainbooking.Status(d.Status),
		PaymentStatus: domainbooking.PaymentStatus(d.PaymentStatus),
		Notes:         d.Notes,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}
}
