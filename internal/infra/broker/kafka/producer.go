package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	domainchat "unilodge/internal/domain/chat"
)

const topicMessageSent = "chat.message.sent.v1"

// messageSentEvent is the wire shape for persisted chat messages fanned out
// to other instances. Field names follow the storage schema.
type messageSentEvent struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	PropertyID string    `json:"property_id,omitempty"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Producer publishes chat events keyed by receiver so a user's messages stay
// ordered within a partition.
type Producer struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	p, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{producer: p, topicPrefix: topicPrefix}, nil
}

func (p *Producer) MessageSent(ctx context.Context, msg domainchat.Message) error {
	payload, err := json.Marshal(messageSentEvent{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		PropertyID: msg.PropertyID,
		Content:    msg.Content,
		IsRead:     msg.IsRead,
		CreatedAt:  msg.CreatedAt,
	})
	if err != nil {
		return err
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topicFor(topicMessageSent),
		Key:   sarama.StringEncoder(msg.ReceiverID),
		Value: sarama.ByteEncoder(payload),
	})
	return err
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

func (p *Producer) topicFor(name string) string {
	if p.topicPrefix == "" {
		return name
	}
	return p.topicPrefix + "." + name
}
