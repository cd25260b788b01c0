package chat

// Profile is the read-only counterpart identity shown in a conversation. It is
// owned by the user domain; chat only displays it.
type Profile struct {
	ID        string
	FullName  string
	AvatarURL string
	Role      string
}

// PropertyRef is the property summary attached to a property-scoped thread.
type PropertyRef struct {
	ID    string
	Title string
	City  string
}

// Conversation is a derived view over the message log: one entry per
// (counterpart, property scope) pair. It is never persisted. PropertyID is the
// storage scope the thread is keyed on; Property is display data and may be
// nil even for a property-scoped thread (deleted listing, store hiccup).
type Conversation struct {
	OtherUser   Profile
	PropertyID  string
	Property    *PropertyRef
	LastMessage Message
	UnreadCount int
	Draft       bool
}

// Key returns the thread key identifying this conversation.
func (c Conversation) Key() string {
	return ThreadKey(c.OtherUser.ID, c.PropertyID)
}

// Aggregate folds a newest-first message log into the user's conversation
// list. Because the input is ordered newest first, the first message seen for
// a key is that conversation's latest message, and the output order follows
// recency of last activity. Unread counts every message addressed to the user
// that is still unread within the key.
//
// Conversations are always a deterministic function of the message set;
// callers must not cache or mutate the result across inserts.
func Aggregate(userID string, newestFirst []Message, profiles map[string]Profile, properties map[string]*PropertyRef) []Conversation {
	if userID == "" || len(newestFirst) == 0 {
		return []Conversation{}
	}
	index := make(map[string]int, len(newestFirst))
	out := make([]Conversation, 0, len(newestFirst))
	for _, msg := range newestFirst {
		otherID := msg.CounterpartID(userID)
		key := ThreadKey(otherID, msg.PropertyID)
		unread := 0
		if msg.ReceiverID == userID && !msg.IsRead {
			unread = 1
		}
		if at, ok := index[key]; ok {
			out[at].UnreadCount += unread
			continue
		}
		conv := Conversation{
			OtherUser:   profiles[otherID],
			PropertyID:  msg.PropertyID,
			LastMessage: msg,
			UnreadCount: unread,
		}
		if conv.OtherUser.ID == "" {
			conv.OtherUser.ID = otherID
		}
		if msg.PropertyID != "" {
			conv.Property = properties[msg.PropertyID]
		}
		index[key] = len(out)
		out = append(out, conv)
	}
	return out
}
