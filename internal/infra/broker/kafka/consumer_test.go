package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainchat "unilodge/internal/domain/chat"
)

func TestInstanceGroupIsUniquePerProcess(t *testing.T) {
	first := InstanceGroup("unilodge-chat")
	second := InstanceGroup("unilodge-chat")

	assert.True(t, strings.HasPrefix(first, "unilodge-chat-"))
	// Every instance must land in its own group so the message-sent topic is
	// broadcast to all hubs instead of load-balanced across them.
	assert.NotEqual(t, first, second)

	assert.True(t, strings.HasPrefix(InstanceGroup(""), "unilodge-chat-"))
}

func TestMessageSentTopicPrefix(t *testing.T) {
	assert.Equal(t, "chat.message.sent.v1", MessageSentTopic(""))
	assert.Equal(t, "staging.chat.message.sent.v1", MessageSentTopic("staging"))
}

type sinkSpy struct {
	received []domainchat.Message
}

func (s *sinkSpy) MessageSent(ctx context.Context, msg domainchat.Message) error {
	s.received = append(s.received, msg)
	return nil
}

func TestChatEventHandlerDecodesEvents(t *testing.T) {
	sink := &sinkSpy{}
	handler := ChatEventHandler{Sink: sink}

	sent := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(messageSentEvent{
		ID:         "m1",
		SenderID:   "lena",
		ReceiverID: "student",
		PropertyID: "p9",
		Content:    "hi",
		CreatedAt:  sent,
	})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), &sarama.ConsumerMessage{Value: payload})
	require.NoError(t, err)
	require.Len(t, sink.received, 1)
	assert.Equal(t, "m1", sink.received[0].ID)
	assert.Equal(t, "p9", sink.received[0].PropertyID)
	assert.Equal(t, sent, sink.received[0].CreatedAt)
}

func TestChatEventHandlerSkipsUndecodablePayloads(t *testing.T) {
	sink := &sinkSpy{}
	handler := ChatEventHandler{Sink: sink}

	// Returning nil lets the consumer mark the offset; a poison payload must
	// not wedge the partition.
	err := handler.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("not json")})
	require.NoError(t, err)
	assert.Empty(t, sink.received)
}
