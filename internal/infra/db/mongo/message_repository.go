package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainchat "unilodge/internal/domain/chat"
)

type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection("messages")}
}

func (r *MessageRepository) ListBetween(ctx context.Context, userID, otherUserID, propertyID string) ([]domainchat.Message, error) {
	scope := domainchat.PropertyScope(propertyID)
	filter := bson.M{
		"property_id": scope,
		"$or": bson.A{
			bson.M{"sender_id": userID, "receiver_id": otherUserID},
			bson.M{"sender_id": otherUserID, "receiver_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.list(ctx, filter, opts)
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]domainchat.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.list(ctx, filter, opts)
}

func (r *MessageRepository) Insert(ctx context.Context, msg domainchat.Message) error {
	_, err := r.col.InsertOne(ctx, newMessageDocument(msg))
	return err
}

func (r *MessageRepository) MarkRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}

func (r *MessageRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domainchat.Message, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []domainchat.Message{}
	for cur.Next(ctx) {
		var doc messageDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type messageDocument struct {
	ID         string `bson:"_id"`
	SenderID   string `bson:"sender_id"`
	ReceiverID string `bson:"receiver_id"`
	PropertyID string `bson:"property_id"`
	Content    string `bson:"content"`
	IsRead     bool   `bson:"is_read"`
	CreatedAt  int64  `bson:"created_at"`
}

func newMessageDocument(m domainchat.Message) messageDocument {
	return messageDocument{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		PropertyID: m.PropertyID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt.UnixMilli(),
	}
}

func (d messageDocument) toAggregate() domainchat.Message {
	return domainchat.Message{
		ID:         d.ID,
		SenderID:   d.SenderID,
		ReceiverID: d.ReceiverID,
		PropertyID: d.PropertyID,
		Content:    d.Content,
		IsRead:     d.IsRead,
		CreatedAt:  timestampToTime(d.CreatedAt),
	}
}
