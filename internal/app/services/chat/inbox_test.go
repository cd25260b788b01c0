package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainchat "unilodge/internal/domain/chat"
)

func (s *stubMessages) setHook(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listBetweenHook = hook
}

func (s *stubMessages) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listForUserCalls
}

func newTestInbox(repo *stubMessages, users *stubUsers) (*Inbox, *Service) {
	svc, _ := newTestService(repo, users)
	owner := domainchat.Profile{ID: "student", FullName: "Sam", Role: "student"}
	return NewInbox(svc, owner), svc
}

func TestInboxSelectZeroesUnreadCounter(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "landlord", "student", "", "hi", false, 1),
		seeded("m2", "landlord", "student", "", "free tomorrow?", false, 2),
	}}
	in, _ := newTestInbox(repo, newStubUsers(testUser("landlord", "Lena", "landlord")))
	ctx := context.Background()

	require.NoError(t, in.Load(ctx))
	convs := in.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, 2, convs[0].UnreadCount)

	msgs, applied, err := in.Select(ctx, "landlord", "general")
	require.NoError(t, err)
	require.True(t, applied)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID, "thread is ascending")

	assert.Equal(t, 0, in.Conversations()[0].UnreadCount)
	require.Len(t, repo.markCalls, 1)
	assert.ElementsMatch(t, []string{"m1", "m2"}, repo.markCalls[0])
}

func TestInboxIngestAppendsToActiveThread(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "landlord", "student", "prop-1", "hi", true, 1),
	}}
	in, _ := newTestInbox(repo, newStubUsers(testUser("landlord", "Lena", "landlord")))
	ctx := context.Background()

	require.NoError(t, in.Load(ctx))
	_, applied, err := in.Select(ctx, "landlord", "prop-1")
	require.NoError(t, err)
	require.True(t, applied)

	incoming := seeded("m2", "landlord", "student", "prop-1", "viewing at 5?", false, 5)
	change := in.Ingest(ctx, incoming)

	require.NotNil(t, change.AppendedToActive)
	assert.True(t, change.AppendedToActive.IsRead, "open thread means delivered-as-read")
	assert.False(t, change.Duplicate)

	msgs := in.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[1].ID)

	// The store was told the delivered message is read.
	require.NotEmpty(t, repo.markCalls)
	assert.Contains(t, repo.markCalls[len(repo.markCalls)-1], "m2")

	convs := in.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, "m2", convs[0].LastMessage.ID)
	assert.Equal(t, 0, convs[0].UnreadCount)
}

func TestInboxIngestMergesOtherThreadWithoutRefetch(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "lena", "student", "", "about the flat", true, 3),
		seeded("m2", "omar", "student", "", "deposit question", true, 1),
	}}
	users := newStubUsers(
		testUser("lena", "Lena", "landlord"),
		testUser("omar", "Omar", "landlord"),
	)
	in, _ := newTestInbox(repo, users)
	ctx := context.Background()

	require.NoError(t, in.Load(ctx))
	_, _, err := in.Select(ctx, "lena", "")
	require.NoError(t, err)

	fetchesBefore := repo.listCalls()
	change := in.Ingest(ctx, seeded("m3", "omar", "student", "", "ping", false, 9))

	require.NotNil(t, change.Conversations)
	assert.Nil(t, change.AppendedToActive)
	assert.Equal(t, fetchesBefore, repo.listCalls(), "merge must not refetch the list")

	convs := in.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, "omar", convs[0].OtherUser.ID, "updated thread moves to front")
	assert.Equal(t, "m3", convs[0].LastMessage.ID)
	assert.Equal(t, 1, convs[0].UnreadCount)

	// No mark-read for a background thread.
	for _, call := range repo.markCalls {
		assert.NotContains(t, call, "m3")
	}
}

func TestInboxKeepsScopedThreadsApartWhenPropertyUnresolved(t *testing.T) {
	// The thread's listing cannot be resolved (deleted or store error), so the
	// conversation carries no property ref. A general-thread event from the
	// same counterpart must still open a second conversation, not fold into
	// the scoped one.
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "lena", "student", "p9", "about the flat", false, 1),
	}}
	in, _ := newTestInbox(repo, newStubUsers(testUser("lena", "Lena", "landlord")))
	ctx := context.Background()

	require.NoError(t, in.Load(ctx))
	loaded := in.Conversations()
	require.Len(t, loaded, 1)
	assert.Equal(t, "lena_p9", loaded[0].Key())
	assert.Nil(t, loaded[0].Property)

	change := in.Ingest(ctx, seeded("m2", "lena", "student", "", "hello in general", false, 2))
	require.NotNil(t, change.Conversations)

	convs := in.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, "lena_general", convs[0].Key())
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.Equal(t, "lena_p9", convs[1].Key())
	assert.Equal(t, 1, convs[1].UnreadCount, "scoped thread untouched by the general event")
}

func TestInboxIngestDuplicateIsNoOp(t *testing.T) {
	repo := &stubMessages{}
	in, _ := newTestInbox(repo, newStubUsers(testUser("lena", "Lena", "landlord")))
	ctx := context.Background()
	require.NoError(t, in.Load(ctx))

	msg := seeded("m1", "lena", "student", "", "hello", false, 1)
	first := in.Ingest(ctx, msg)
	second := in.Ingest(ctx, msg)

	assert.False(t, first.Duplicate)
	assert.True(t, second.Duplicate)

	convs := in.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].UnreadCount, "duplicate must not inflate unread")
}

func TestInboxIngestIgnoresMessagesForOthers(t *testing.T) {
	in, _ := newTestInbox(&stubMessages{}, newStubUsers())
	change := in.Ingest(context.Background(), seeded("m1", "lena", "someone-else", "", "hi", false, 1))
	assert.True(t, change.Duplicate)
	assert.Empty(t, in.Conversations())
}

func TestInboxIngestFetchesUnknownSenderProfileOnce(t *testing.T) {
	users := newStubUsers(testUser("newcomer", "Nadia", "landlord"))
	in, _ := newTestInbox(&stubMessages{}, users)
	ctx := context.Background()
	require.NoError(t, in.Load(ctx))

	in.Ingest(ctx, seeded("m1", "newcomer", "student", "", "hi", false, 1))
	in.Ingest(ctx, seeded("m2", "newcomer", "student", "", "hi again", false, 2))

	assert.Equal(t, 1, users.callsFor("newcomer"))

	convs := in.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, "Nadia", convs[0].OtherUser.FullName)
	assert.Equal(t, 2, convs[0].UnreadCount)
}

func TestInboxSelectDiscardsStaleFetch(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "lena", "student", "", "thread a", true, 1),
		seeded("m2", "omar", "student", "", "thread b", true, 2),
	}}
	users := newStubUsers(
		testUser("lena", "Lena", "landlord"),
		testUser("omar", "Omar", "landlord"),
	)
	in, _ := newTestInbox(repo, users)
	ctx := context.Background()
	require.NoError(t, in.Load(ctx))

	// While the first fetch is in flight, a second selection supersedes it.
	var inner []domainchat.Message
	var innerApplied bool
	repo.setHook(func() {
		repo.setHook(nil)
		var err error
		inner, innerApplied, err = in.Select(ctx, "omar", "")
		require.NoError(t, err)
	})

	outer, outerApplied, err := in.Select(ctx, "lena", "")
	require.NoError(t, err)
	assert.False(t, outerApplied, "superseded fetch must be discarded")
	assert.Nil(t, outer)

	require.True(t, innerApplied)
	require.Len(t, inner, 1)
	assert.Equal(t, "m2", inner[0].ID)

	active, ok := in.Active()
	require.True(t, ok)
	assert.Equal(t, "omar", active.OtherUserID)

	msgs := in.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m2", msgs[0].ID, "stale result must not clobber the newer thread")
}

func TestInboxSendSwapsProvisionalForConfirmed(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "lena", "student", "", "hi", true, 1),
	}}
	in, _ := newTestInbox(repo, newStubUsers(testUser("lena", "Lena", "landlord")))
	ctx := context.Background()

	require.NoError(t, in.Load(ctx))
	_, _, err := in.Select(ctx, "lena", "")
	require.NoError(t, err)

	confirmed, err := in.Send(ctx, "see you at five")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(confirmed.ID, "local-"))

	msgs := in.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, confirmed.ID, msgs[1].ID)
	for _, m := range msgs {
		assert.False(t, strings.HasPrefix(m.ID, "local-"), "no provisional entry may survive the swap")
	}

	convs := in.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, confirmed.ID, convs[0].LastMessage.ID)

	// A realtime echo of the confirmed row is recognised as a duplicate.
	echo := confirmed
	echo.ReceiverID = "student"
	echo.SenderID = "lena"
	assert.True(t, in.Ingest(ctx, echo).Duplicate)
}

func TestInboxSendWithoutActiveThread(t *testing.T) {
	in, _ := newTestInbox(&stubMessages{}, newStubUsers())
	_, err := in.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoActiveThread)
}

func TestInboxSendFailureRemovesProvisional(t *testing.T) {
	repo := &stubMessages{}
	in, _ := newTestInbox(repo, newStubUsers(testUser("lena", "Lena", "landlord")))
	ctx := context.Background()

	require.NoError(t, in.Load(ctx))
	_, _, err := in.Select(ctx, "lena", "")
	require.NoError(t, err)

	repo.failInsert = true
	_, err = in.Send(ctx, "will not persist")
	require.Error(t, err)
	assert.Empty(t, in.Messages(), "failed send must not leave a provisional entry")
}
