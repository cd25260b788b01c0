package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	domainchat "unilodge/internal/domain/chat"
)

type MessageHandler interface {
	Handle(ctx context.Context, msg *sarama.ConsumerMessage) error
}

type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
}

func NewConsumer(brokers []string, groupID string, cfg *sarama.Config, handler MessageHandler) (*Consumer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V2_5_0_0
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: g, handler: handler}, nil
}

func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		if err := c.group.Consume(ctx, topics, consumerGroupHandler{handler: c.handler}); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type consumerGroupHandler struct {
	handler MessageHandler
}

func (h consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h consumerGroupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.handler.Handle(sess.Context(), message); err != nil {
			// retry/handling delegated to handler
			continue
		}
		sess.MarkMessage(message, "")
	}
	return nil
}

// EventSink receives decoded chat events; the realtime hub satisfies it.
type EventSink interface {
	MessageSent(ctx context.Context, msg domainchat.Message) error
}

// ChatEventHandler decodes chat.message.sent events and forwards them to the
// local realtime hub. Undecodable payloads are logged and marked so they do
// not wedge the partition.
type ChatEventHandler struct {
	Sink   EventSink
	Logger *slog.Logger
}

func (h ChatEventHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt messageSentEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("chat event decode failed", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
		return nil
	}
	return h.Sink.MessageSent(ctx, domainchat.Message{
		ID:         evt.ID,
		SenderID:   evt.SenderID,
		ReceiverID: evt.ReceiverID,
		PropertyID: evt.PropertyID,
		Content:    evt.Content,
		IsRead:     evt.IsRead,
		CreatedAt:  evt.CreatedAt,
	})
}

// MessageSentTopic returns the fully prefixed topic name for consumers.
func MessageSentTopic(prefix string) string {
	if prefix == "" {
		return topicMessageSent
	}
	return prefix + "." + topicMessageSent
}

// InstanceGroup derives a consumer group unique to this process. Chat events
// are broadcast, not work-shared: every instance must consume the full topic
// so the hub on whichever instance holds the receiver's websocket sees the
// event. Sharing one group id would route each event to a single instance.
func InstanceGroup(base string) string {
	if base == "" {
		base = "unilodge-chat"
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return base + "-" + uuid.NewString()
	}
	return base + "-" + host + "-" + uuid.NewString()[:8]
}
