package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	domainchat "unilodge/internal/domain/chat"
)

var ErrNoActiveThread = errors.New("chat: no active thread selected")

// ThreadRef identifies one thread from the inbox owner's point of view.
// PropertyID uses the storage scope: empty string for the general thread.
type ThreadRef struct {
	OtherUserID string
	PropertyID  string
}

// Change describes what an ingested realtime event did to the inbox.
type Change struct {
	// AppendedToActive is set when the event joined the open thread.
	AppendedToActive *domainchat.Message
	// Conversations is a fresh snapshot when the conversation list changed.
	Conversations []domainchat.Conversation
	// Duplicate is set when the event carried an already-known message id.
	Duplicate bool
}

// Inbox is the per-connection conversation state: the conversation list, the
// active thread and its message history. Realtime events merge into it
// incrementally; a full refetch is never required in steady state.
//
// Every fetch is tagged with a generation so that results landing after a
// thread switch are discarded instead of clobbering the newer thread.
type Inbox struct {
	mu            sync.Mutex
	svc           *Service
	user          domainchat.Profile
	conversations []domainchat.Conversation
	active        *ThreadRef
	messages      []domainchat.Message
	profiles      map[string]domainchat.Profile
	gen           uint64
}

func NewInbox(svc *Service, owner domainchat.Profile) *Inbox {
	return &Inbox{
		svc:      svc,
		user:     owner,
		profiles: make(map[string]domainchat.Profile),
	}
}

// Load fetches the owner's conversation list.
func (in *Inbox) Load(ctx context.Context) error {
	return in.load(ctx, "", "")
}

// LoadWithDraft is Load plus the deep-link draft seeding described on
// ConversationsWithDraft.
func (in *Inbox) LoadWithDraft(ctx context.Context, landlordID, propertyID string) error {
	return in.load(ctx, landlordID, propertyID)
}

func (in *Inbox) load(ctx context.Context, landlordID, propertyID string) error {
	conversations, err := in.svc.ConversationsWithDraft(ctx, in.user.ID, landlordID, propertyID)
	if err != nil {
		return err
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.conversations = conversations
	for _, conv := range conversations {
		in.profiles[conv.OtherUser.ID] = conv.OtherUser
	}
	return nil
}

// Conversations returns a copy of the current conversation list.
func (in *Inbox) Conversations() []domainchat.Conversation {
	in.mu.Lock()
	defer in.mu.Unlock()
	return snapshot(in.conversations)
}

// Messages returns a copy of the active thread's history.
func (in *Inbox) Messages() []domainchat.Message {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]domainchat.Message(nil), in.messages...)
}

// Active returns the currently selected thread, if any.
func (in *Inbox) Active() (ThreadRef, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.active == nil {
		return ThreadRef{}, false
	}
	return *in.active, true
}

// Select opens a thread: it fetches the ascending history, marks it read and
// zeroes the thread's unread counter. The returned flag is false when the
// result was discarded because another Select happened while fetching.
func (in *Inbox) Select(ctx context.Context, otherUserID, propertyID string) ([]domainchat.Message, bool, error) {
	scope := domainchat.PropertyScope(propertyID)

	in.mu.Lock()
	in.gen++
	token := in.gen
	in.active = &ThreadRef{OtherUserID: otherUserID, PropertyID: scope}
	in.messages = nil
	in.mu.Unlock()

	msgs, err := in.svc.OpenThread(ctx, in.user.ID, otherUserID, scope)

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.gen != token {
		// The user switched threads while this fetch was in flight.
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	in.messages = msgs
	key := domainchat.ThreadKey(otherUserID, scope)
	for i := range in.conversations {
		if in.conversations[i].Key() == key {
			in.conversations[i].UnreadCount = 0
			break
		}
	}
	return append([]domainchat.Message(nil), msgs...), true, nil
}

// Send appends a provisional message to the active thread, persists it and
// swaps the provisional entry for the confirmed row, so a realtime echo of
// the same message cannot render twice.
func (in *Inbox) Send(ctx context.Context, content string) (domainchat.Message, error) {
	in.mu.Lock()
	if in.active == nil {
		in.mu.Unlock()
		return domainchat.Message{}, ErrNoActiveThread
	}
	ref := *in.active
	token := in.gen
	provisional := domainchat.Message{
		ID:         "local-" + uuid.NewString(),
		SenderID:   in.user.ID,
		ReceiverID: ref.OtherUserID,
		PropertyID: ref.PropertyID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	in.messages = append(in.messages, provisional)
	in.mu.Unlock()

	confirmed, err := in.svc.Send(ctx, in.user.ID, ref.OtherUserID, ref.PropertyID, content)

	in.mu.Lock()
	defer in.mu.Unlock()
	if err != nil {
		if in.gen == token {
			in.removeMessage(provisional.ID)
		}
		return domainchat.Message{}, err
	}
	if in.gen == token {
		in.replaceMessage(provisional.ID, confirmed)
	}
	in.bumpConversation(confirmed, 0)
	return confirmed, nil
}

// Ingest merges a realtime-delivered message into the inbox. Duplicate
// deliveries are no-ops keyed by message id. An event for the open thread is
// appended and immediately marked read; any other event merges straight into
// the conversation list using cached profile data, fetching the counterpart
// profile at most once.
func (in *Inbox) Ingest(ctx context.Context, msg domainchat.Message) Change {
	in.mu.Lock()
	if msg.ReceiverID != in.user.ID || in.knownMessage(msg.ID) {
		in.mu.Unlock()
		return Change{Duplicate: true}
	}
	if in.active != nil && msg.SenderID == in.active.OtherUserID && domainchat.SameScope(msg.PropertyID, in.active.PropertyID) {
		msg.IsRead = true
		in.messages = append(in.messages, msg)
		in.bumpConversation(msg, 0)
		in.mu.Unlock()
		// The owner is presumed to be looking at the thread.
		in.svc.MarkMessageRead(ctx, msg.ID)
		return Change{AppendedToActive: &msg, Conversations: in.Conversations()}
	}
	in.mu.Unlock()

	profile := in.counterpartProfile(ctx, msg.SenderID)
	var property *domainchat.PropertyRef
	if msg.PropertyID != "" {
		property = in.svc.propertyRef(ctx, msg.PropertyID)
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.knownMessage(msg.ID) {
		return Change{Duplicate: true}
	}
	if !in.bumpConversation(msg, 1) {
		conv := domainchat.Conversation{
			OtherUser:   profile,
			PropertyID:  msg.PropertyID,
			Property:    property,
			LastMessage: msg,
			UnreadCount: 1,
		}
		in.conversations = append([]domainchat.Conversation{conv}, in.conversations...)
	}
	return Change{Conversations: snapshot(in.conversations)}
}

// counterpartProfile serves from the cache and falls back to a single store
// lookup; unknown senders still get a bare profile so the merge never fails.
func (in *Inbox) counterpartProfile(ctx context.Context, id string) domainchat.Profile {
	in.mu.Lock()
	cached, ok := in.profiles[id]
	in.mu.Unlock()
	if ok {
		return cached
	}
	profile, err := in.svc.Profile(ctx, id)
	if err != nil {
		return domainchat.Profile{ID: id}
	}
	in.mu.Lock()
	in.profiles[id] = profile
	in.mu.Unlock()
	return profile
}

// bumpConversation moves the message's thread to the front with msg as last
// message, adding delta to its unread count. Reports whether the thread
// existed. Callers hold the mutex.
func (in *Inbox) bumpConversation(msg domainchat.Message, delta int) bool {
	key := msg.ThreadKeyFor(in.user.ID)
	for i := range in.conversations {
		if in.conversations[i].Key() != key {
			continue
		}
		conv := in.conversations[i]
		conv.LastMessage = msg
		conv.UnreadCount += delta
		conv.Draft = false
		in.conversations = append(in.conversations[:i], in.conversations[i+1:]...)
		in.conversations = append([]domainchat.Conversation{conv}, in.conversations...)
		return true
	}
	return false
}

// knownMessage reports whether a message id is already present, either in the
// active history or as a conversation's last message. Callers hold the mutex.
func (in *Inbox) knownMessage(id string) bool {
	for i := range in.messages {
		if in.messages[i].ID == id {
			return true
		}
	}
	for i := range in.conversations {
		if in.conversations[i].LastMessage.ID == id && id != "" {
			return true
		}
	}
	return false
}

func (in *Inbox) removeMessage(id string) {
	for i := range in.messages {
		if in.messages[i].ID == id {
			in.messages = append(in.messages[:i], in.messages[i+1:]...)
			return
		}
	}
}

func (in *Inbox) replaceMessage(id string, with domainchat.Message) {
	for i := range in.messages {
		if in.messages[i].ID == id {
			in.messages[i] = with
			return
		}
	}
	// Provisional entry already gone; keep history consistent by appending.
	in.messages = append(in.messages, with)
}

func snapshot(conversations []domainchat.Conversation) []domainchat.Conversation {
	return append([]domainchat.Conversation(nil), conversations...)
}
