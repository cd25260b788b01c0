package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domainchat "unilodge/internal/domain/chat"
	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
)

// DraftPlaceholder is shown as the last message of a conversation that has no
// backing rows yet.
const DraftPlaceholder = "Draft new message..."

// Publisher receives every persisted message for realtime fan-out. Failures
// are logged, never surfaced: delivery is best effort, readers reconcile on
// the next full listing.
type Publisher interface {
	MessageSent(ctx context.Context, msg domainchat.Message) error
}

// Service implements conversation listing, thread reads and the send flow on
// top of the message store. Errors that cross the HTTP boundary are expressed
// as gRPC status values and mapped to responses by the handler.
type Service struct {
	Messages   domainchat.Repository
	Users      domainuser.Repository
	Properties domainproperty.Repository
	Publisher  Publisher
	Logger     *slog.Logger
}

// Conversations folds the user's full message log into distinct threads,
// newest activity first. An empty user id yields an empty list, not an error.
func (s *Service) Conversations(ctx context.Context, userID string) ([]domainchat.Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []domainchat.Conversation{}, nil
	}
	msgs, err := s.Messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, status.Error(codes.Unavailable, "message store unavailable")
	}
	profiles := s.resolveProfiles(ctx, counterpartIDs(userID, msgs))
	properties := s.resolveProperties(ctx, propertyIDs(msgs))
	return domainchat.Aggregate(userID, msgs, profiles, properties), nil
}

// ConversationsWithDraft lists conversations and, when the deep-link names a
// landlord without prior history for that thread key, prepends a synthetic
// draft entry. An existing real thread always wins over the draft.
func (s *Service) ConversationsWithDraft(ctx context.Context, userID, landlordID, propertyID string) ([]domainchat.Conversation, error) {
	conversations, err := s.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	landlordID = strings.TrimSpace(landlordID)
	if landlordID == "" || landlordID == userID {
		return conversations, nil
	}
	key := domainchat.ThreadKey(landlordID, propertyID)
	for _, conv := range conversations {
		if conv.Key() == key {
			return conversations, nil
		}
	}
	counterpart, err := s.Profile(ctx, landlordID)
	if err != nil {
		s.logWarn("draft counterpart lookup failed", "landlord_id", landlordID, "error", err)
		return conversations, nil
	}
	draft := domainchat.Conversation{
		OtherUser:  counterpart,
		PropertyID: domainchat.PropertyScope(propertyID),
		LastMessage: domainchat.Message{
			Content:   DraftPlaceholder,
			CreatedAt: time.Now().UTC(),
		},
		Draft: true,
	}
	if draft.PropertyID != "" {
		if ref := s.propertyRef(ctx, draft.PropertyID); ref != nil {
			draft.Property = ref
		}
	}
	return append([]domainchat.Conversation{draft}, conversations...), nil
}

// OpenThread returns the full thread between the user and a counterpart in
// ascending order and marks every unread message addressed to the user as
// read. A failed read-mark is logged, not surfaced.
func (s *Service) OpenThread(ctx context.Context, userID, otherUserID, propertyID string) ([]domainchat.Message, error) {
	msgs, err := s.threadMessages(ctx, userID, otherUserID, propertyID)
	if err != nil {
		return nil, err
	}
	unread := unreadIDs(userID, msgs)
	if len(unread) == 0 {
		return msgs, nil
	}
	if err := s.Messages.MarkRead(ctx, unread); err != nil {
		s.logWarn("mark read failed", "user_id", userID, "other_user_id", otherUserID, "error", err)
		return msgs, nil
	}
	for i := range msgs {
		if msgs[i].ReceiverID == userID {
			msgs[i].IsRead = true
		}
	}
	return msgs, nil
}

// MarkThreadRead marks the unread messages addressed to the user within one
// thread as read and returns how many changed state. Calling it again on the
// same thread is a no-op. Store failures are logged and swallowed.
func (s *Service) MarkThreadRead(ctx context.Context, userID, otherUserID, propertyID string) (int, error) {
	msgs, err := s.threadMessages(ctx, userID, otherUserID, propertyID)
	if err != nil {
		return 0, err
	}
	unread := unreadIDs(userID, msgs)
	if len(unread) == 0 {
		return 0, nil
	}
	if err := s.Messages.MarkRead(ctx, unread); err != nil {
		s.logWarn("mark read failed", "user_id", userID, "other_user_id", otherUserID, "error", err)
		return 0, nil
	}
	return len(unread), nil
}

// MarkMessageRead flips a single delivered message to read. Used by the
// realtime path when the receiver is presumed to be looking at the thread.
func (s *Service) MarkMessageRead(ctx context.Context, id string) {
	if strings.TrimSpace(id) == "" {
		return
	}
	if err := s.Messages.MarkRead(ctx, []string{id}); err != nil {
		s.logWarn("mark delivered message read failed", "message_id", id, "error", err)
	}
}

// Send validates, persists and publishes a message, returning the confirmed
// row synchronously so callers can swap any provisional entry in place.
func (s *Service) Send(ctx context.Context, senderID, receiverID, propertyID, content string) (domainchat.Message, error) {
	msg, err := domainchat.NewMessage(domainchat.NewMessageParams{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		PropertyID: propertyID,
		Content:    content,
	})
	if err != nil {
		return domainchat.Message{}, status.Error(codes.InvalidArgument, err.Error())
	}
	if _, err := s.Users.ByID(ctx, domainuser.ID(msg.ReceiverID)); err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return domainchat.Message{}, status.Error(codes.NotFound, "receiver not found")
		}
		return domainchat.Message{}, status.Error(codes.Unavailable, "user store unavailable")
	}
	if err := s.Messages.Insert(ctx, msg); err != nil {
		return domainchat.Message{}, status.Error(codes.Unavailable, "message store unavailable")
	}
	if s.Publisher != nil {
		if err := s.Publisher.MessageSent(ctx, msg); err != nil {
			s.logWarn("message publish failed", "message_id", msg.ID, "error", err)
		}
	}
	return msg, nil
}

// Profile resolves a counterpart's display identity.
func (s *Service) Profile(ctx context.Context, id string) (domainchat.Profile, error) {
	u, err := s.Users.ByID(ctx, domainuser.ID(id))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return domainchat.Profile{}, status.Error(codes.NotFound, "profile not found")
		}
		return domainchat.Profile{}, status.Error(codes.Unavailable, "user store unavailable")
	}
	return profileOf(u), nil
}

func (s *Service) threadMessages(ctx context.Context, userID, otherUserID, propertyID string) ([]domainchat.Message, error) {
	userID = strings.TrimSpace(userID)
	otherUserID = strings.TrimSpace(otherUserID)
	if userID == "" {
		return []domainchat.Message{}, nil
	}
	if otherUserID == "" {
		return nil, status.Error(codes.InvalidArgument, "counterpart id is required")
	}
	msgs, err := s.Messages.ListBetween(ctx, userID, otherUserID, domainchat.PropertyScope(propertyID))
	if err != nil {
		return nil, status.Error(codes.Unavailable, "message store unavailable")
	}
	return msgs, nil
}

func (s *Service) resolveProfiles(ctx context.Context, ids []string) map[string]domainchat.Profile {
	profiles := make(map[string]domainchat.Profile, len(ids))
	for _, id := range ids {
		u, err := s.Users.ByID(ctx, domainuser.ID(id))
		if err != nil {
			s.logWarn("counterpart profile lookup failed", "user_id", id, "error", err)
			continue
		}
		profiles[id] = profileOf(u)
	}
	return profiles
}

func (s *Service) resolveProperties(ctx context.Context, ids []string) map[string]*domainchat.PropertyRef {
	refs := make(map[string]*domainchat.PropertyRef, len(ids))
	for _, id := range ids {
		if ref := s.propertyRef(ctx, id); ref != nil {
			refs[id] = ref
		}
	}
	return refs
}

func (s *Service) propertyRef(ctx context.Context, id string) *domainchat.PropertyRef {
	if s.Properties == nil {
		return nil
	}
	prop, err := s.Properties.ByID(ctx, domainproperty.ID(id))
	if err != nil {
		s.logWarn("thread property lookup failed", "property_id", id, "error", err)
		return nil
	}
	return &domainchat.PropertyRef{ID: string(prop.ID), Title: prop.Title, City: prop.City}
}

func (s *Service) logWarn(msg string, args ...any) {
	if s.Logger != nil {
		s.Logger.Warn(msg, args...)
	}
}

func profileOf(u *domainuser.User) domainchat.Profile {
	return domainchat.Profile{
		ID:        string(u.ID),
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Role:      string(u.Role),
	}
}

func counterpartIDs(userID string, msgs []domainchat.Message) []string {
	seen := make(map[string]struct{}, len(msgs))
	out := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		id := msg.CounterpartID(userID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func propertyIDs(msgs []domainchat.Message) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, msg := range msgs {
		if msg.PropertyID == "" {
			continue
		}
		if _, ok := seen[msg.PropertyID]; ok {
			continue
		}
		seen[msg.PropertyID] = struct{}{}
		out = append(out, msg.PropertyID)
	}
	return out
}

func unreadIDs(userID string, msgs []domainchat.Message) []string {
	ids := make([]string, 0)
	for _, msg := range msgs {
		if msg.ReceiverID == userID && !msg.IsRead {
			ids = append(ids, msg.ID)
		}
	}
	return ids
}
