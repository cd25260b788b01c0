package chat

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired       = errors.New("chat: message id is required")
	ErrSenderRequired   = errors.New("chat: sender is required")
	ErrReceiverRequired = errors.New("chat: receiver is required")
	ErrContentRequired  = errors.New("chat: content is required")
	ErrSelfMessage      = errors.New("chat: cannot message yourself")
	ErrNotFound         = errors.New("chat: message not found")
)

// GeneralThread is the sentinel property scope for conversations that are not
// tied to one property.
const GeneralThread = "general"

// Message is a single directed message between two users, optionally scoped to
// a property. Rows are immutable except for IsRead, which only moves false→true.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	PropertyID string // empty means a general, non-property thread
	Content    string
	IsRead     bool
	CreatedAt  time.Time
}

// CounterpartID returns the user on the other side of the message relative to
// the given user.
func (m Message) CounterpartID(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// ThreadKeyFor returns the conversation key this message belongs to from the
// given user's point of view.
func (m Message) ThreadKeyFor(userID string) string {
	return ThreadKey(m.CounterpartID(userID), m.PropertyID)
}

// ThreadKey builds the conversation key for a counterpart and property scope.
// An empty or sentinel property id maps to the general thread.
func ThreadKey(otherUserID, propertyID string) string {
	return otherUserID + "_" + NormalizePropertyID(propertyID)
}

// NormalizePropertyID maps the empty scope to the general sentinel and trims
// surrounding whitespace.
func NormalizePropertyID(propertyID string) string {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return GeneralThread
	}
	return propertyID
}

// PropertyScope reverses NormalizePropertyID: the sentinel becomes the empty
// string used in storage.
func PropertyScope(propertyID string) string {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == GeneralThread {
		return ""
	}
	return propertyID
}

// SameScope reports whether two property ids address the same thread scope,
// treating empty and the general sentinel as equal.
func SameScope(a, b string) bool {
	return NormalizePropertyID(a) == NormalizePropertyID(b)
}

type NewMessageParams struct {
	ID         string
	SenderID   string
	ReceiverID string
	PropertyID string
	Content    string
	Now        time.Time
}

// NewMessage validates and builds an unread message row.
func NewMessage(params NewMessageParams) (Message, error) {
	id := strings.TrimSpace(params.ID)
	if id == "" {
		return Message{}, ErrIDRequired
	}
	sender := strings.TrimSpace(params.SenderID)
	if sender == "" {
		return Message{}, ErrSenderRequired
	}
	receiver := strings.TrimSpace(params.ReceiverID)
	if receiver == "" {
		return Message{}, ErrReceiverRequired
	}
	if sender == receiver {
		return Message{}, ErrSelfMessage
	}
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return Message{}, ErrContentRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		PropertyID: PropertyScope(params.PropertyID),
		Content:    content,
		IsRead:     false,
		CreatedAt:  now.UTC(),
	}, nil
}

// Repository persists message rows. Implementations must keep the ordering
// contracts: ListBetween ascending, ListForUser descending by CreatedAt.
type Repository interface {
	// ListBetween returns the full thread between two users for one property
	// scope (empty scope = general), ordered oldest first.
	ListBetween(ctx context.Context, userID, otherUserID, propertyID string) ([]Message, error)
	// ListForUser returns every message where the user is sender or receiver,
	// ordered newest first.
	ListForUser(ctx context.Context, userID string) ([]Message, error)
	// Insert stores a new message row.
	Insert(ctx context.Context, msg Message) error
	// MarkRead flips IsRead to true for the given ids in one batch.
	MarkRead(ctx context.Context, ids []string) error
}
