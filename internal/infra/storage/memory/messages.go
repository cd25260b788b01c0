package memory

import (
	"context"
	"sort"
	"sync"

	domainchat "unilodge/internal/domain/chat"
)

// MessageRepository keeps the message log in memory, preserving the ordering
// contracts of the persistent store: newest first for the user log, oldest
// first for a single thread.
type MessageRepository struct {
	mu       sync.RWMutex
	messages []domainchat.Message
	byID     map[string]int
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{byID: make(map[string]int)}
}

func (r *MessageRepository) ListBetween(ctx context.Context, userID, otherUserID, propertyID string) ([]domainchat.Message, error) {
	scope := domainchat.PropertyScope(propertyID)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domainchat.Message{}
	for _, msg := range r.messages {
		between := (msg.SenderID == userID && msg.ReceiverID == otherUserID) ||
			(msg.SenderID == otherUserID && msg.ReceiverID == userID)
		if between && msg.PropertyID == scope {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]domainchat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domainchat.Message{}
	for _, msg := range r.messages {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MessageRepository) Insert(ctx context.Context, msg domainchat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[msg.ID]; ok {
		return nil
	}
	r.byID[msg.ID] = len(r.messages)
	r.messages = append(r.messages, msg)
	return nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if idx, ok := r.byID[id]; ok {
			r.messages[idx].IsRead = true
		}
	}
	return nil
}

var _ domainchat.Repository = (*MessageRepository)(nil)
