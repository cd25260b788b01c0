package dto

import (
	"time"

	domainchat "unilodge/internal/domain/chat"
)

type ChatProfile struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role,omitempty"`
}

type ChatPropertyRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	City  string `json:"city,omitempty"`
}

type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	PropertyID string    `json:"property_id,omitempty"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type Conversation struct {
	Key         string           `json:"key"`
	OtherUser   ChatProfile      `json:"other_user"`
	PropertyID  string           `json:"property_id,omitempty"`
	Property    *ChatPropertyRef `json:"property,omitempty"`
	LastMessage ChatMessage      `json:"last_message"`
	UnreadCount int              `json:"unread_count"`
	Draft       bool             `json:"draft,omitempty"`
}

type ConversationList struct {
	Items []Conversation `json:"items"`
}

type ChatMessageList struct {
	Items []ChatMessage `json:"items"`
}

func MapChatProfile(p domainchat.Profile) ChatProfile {
	return ChatProfile{
		ID:        p.ID,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		Role:      p.Role,
	}
}

func MapChatPropertyRef(ref *domainchat.PropertyRef) *ChatPropertyRef {
	if ref == nil {
		return nil
	}
	return &ChatPropertyRef{ID: ref.ID, Title: ref.Title, City: ref.City}
}

func MapChatMessage(m domainchat.Message) ChatMessage {
	return ChatMessage{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		PropertyID: m.PropertyID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

func MapChatMessages(msgs []domainchat.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MapChatMessage(m))
	}
	return out
}

func MapConversation(conv domainchat.Conversation) Conversation {
	return Conversation{
		Key:         conv.Key(),
		OtherUser:   MapChatProfile(conv.OtherUser),
		PropertyID:  conv.PropertyID,
		Property:    MapChatPropertyRef(conv.Property),
		LastMessage: MapChatMessage(conv.LastMessage),
		UnreadCount: conv.UnreadCount,
		Draft:       conv.Draft,
	}
}

func MapConversations(convs []domainchat.Conversation) []Conversation {
	out := make([]Conversation, 0, len(convs))
	for _, conv := range convs {
		out = append(out, MapConversation(conv))
	}
	return out
}
