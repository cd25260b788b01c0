package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgAt(id, sender, receiver, propertyID, content string, read bool, minute int) Message {
	return Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		PropertyID: propertyID,
		Content:    content,
		IsRead:     read,
		CreatedAt:  time.Date(2026, 3, 1, 12, minute, 0, 0, time.UTC),
	}
}

// newestFirst sorts helper fixtures the way the repository returns them.
func newestFirst(msgs ...Message) []Message {
	out := append([]Message(nil), msgs...)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func TestAggregateSplitsThreadsByPropertyScope(t *testing.T) {
	// Same counterpart, three scopes: property A, property B and general.
	log := newestFirst(
		msgAt("m1", "landlord", "student", "prop-a", "about A", false, 1),
		msgAt("m2", "landlord", "student", "prop-b", "about B", false, 2),
		msgAt("m3", "landlord", "student", "", "hello", false, 3),
	)
	profiles := map[string]Profile{"landlord": {ID: "landlord", FullName: "Lena Hoff"}}
	properties := map[string]*PropertyRef{
		"prop-a": {ID: "prop-a", Title: "Loft A"},
		"prop-b": {ID: "prop-b", Title: "Loft B"},
	}

	convs := Aggregate("student", log, profiles, properties)
	require.Len(t, convs, 3)

	keys := map[string]bool{}
	for _, conv := range convs {
		keys[conv.Key()] = true
	}
	assert.True(t, keys["landlord_general"])
	assert.True(t, keys["landlord_prop-a"])
	assert.True(t, keys["landlord_prop-b"])
}

func TestAggregateLastMessageAndRecencyOrder(t *testing.T) {
	log := newestFirst(
		msgAt("m1", "student", "landlord1", "", "ping", true, 1),
		msgAt("m2", "landlord1", "student", "", "pong", false, 2),
		msgAt("m3", "landlord2", "student", "", "hi", false, 3),
		msgAt("m4", "student", "landlord1", "", "latest", true, 4),
	)

	convs := Aggregate("student", log, nil, nil)
	require.Len(t, convs, 2)

	// landlord1 thread has the most recent activity and comes first.
	assert.Equal(t, "landlord1", convs[0].OtherUser.ID)
	assert.Equal(t, "m4", convs[0].LastMessage.ID)
	assert.Equal(t, "landlord2", convs[1].OtherUser.ID)
	assert.Equal(t, "m3", convs[1].LastMessage.ID)
}

func TestAggregateUnreadCountsOnlyInboundUnread(t *testing.T) {
	log := newestFirst(
		msgAt("m1", "landlord", "student", "", "one", false, 1),
		msgAt("m2", "landlord", "student", "", "two", false, 2),
		msgAt("m3", "student", "landlord", "", "mine", false, 3),
		msgAt("m4", "landlord", "student", "", "three", true, 4),
	)

	convs := Aggregate("student", log, nil, nil)
	require.Len(t, convs, 1)
	// m3 is outbound and m4 already read; only m1 and m2 count.
	assert.Equal(t, 2, convs[0].UnreadCount)
	assert.Equal(t, "m4", convs[0].LastMessage.ID)
}

func TestAggregateEmptyInputs(t *testing.T) {
	assert.Empty(t, Aggregate("student", nil, nil, nil))
	assert.Empty(t, Aggregate("", []Message{msgAt("m1", "a", "b", "", "x", false, 1)}, nil, nil))
}

func TestAggregateKeyKeepsScopeWhenPropertyUnresolved(t *testing.T) {
	// The listing behind a thread may be deleted or momentarily unavailable;
	// the thread key must still carry the scope or the conversation would
	// collide with the general thread.
	log := newestFirst(
		msgAt("m1", "landlord", "student", "prop-gone", "about the flat", false, 1),
		msgAt("m2", "landlord", "student", "", "hello", false, 2),
	)

	convs := Aggregate("student", log, nil, map[string]*PropertyRef{})
	require.Len(t, convs, 2)

	assert.Equal(t, "landlord_general", convs[0].Key())
	assert.Equal(t, "landlord_prop-gone", convs[1].Key())
	assert.Equal(t, "prop-gone", convs[1].PropertyID)
	assert.Nil(t, convs[1].Property)
}

func TestAggregateFallsBackToBareProfile(t *testing.T) {
	log := []Message{msgAt("m1", "ghost", "student", "", "boo", false, 1)}
	convs := Aggregate("student", log, map[string]Profile{}, nil)
	require.Len(t, convs, 1)
	assert.Equal(t, "ghost", convs[0].OtherUser.ID)
	assert.Empty(t, convs[0].OtherUser.FullName)
}

func TestThreadKeyNormalization(t *testing.T) {
	assert.Equal(t, "u2_general", ThreadKey("u2", ""))
	assert.Equal(t, "u2_general", ThreadKey("u2", "general"))
	assert.Equal(t, "u2_prop-1", ThreadKey("u2", "prop-1"))
	assert.True(t, SameScope("", "general"))
	assert.False(t, SameScope("prop-1", ""))
	assert.Equal(t, "", PropertyScope("general"))
	assert.Equal(t, "prop-1", PropertyScope("prop-1"))
}

func TestNewMessageValidation(t *testing.T) {
	_, err := NewMessage(NewMessageParams{ID: "m", SenderID: "a", ReceiverID: "a", Content: "hi"})
	assert.ErrorIs(t, err, ErrSelfMessage)

	_, err = NewMessage(NewMessageParams{ID: "m", SenderID: "a", ReceiverID: "b", Content: "   "})
	assert.ErrorIs(t, err, ErrContentRequired)

	msg, err := NewMessage(NewMessageParams{ID: "m", SenderID: "a", ReceiverID: "b", PropertyID: "general", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "", msg.PropertyID, "general scope stored as empty string")
	assert.False(t, msg.IsRead)
}
