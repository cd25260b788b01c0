package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainchat "unilodge/internal/domain/chat"
)

func storedMessage(id, sender, receiver, propertyID, content string, minute int) domainchat.Message {
	return domainchat.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		PropertyID: propertyID,
		Content:    content,
		CreatedAt:  time.Date(2026, 2, 10, 9, minute, 0, 0, time.UTC),
	}
}

func TestMessageRepositoryOrderingContracts(t *testing.T) {
	repo := NewMessageRepository()
	ctx := context.Background()

	// Inserted deliberately out of chronological order.
	require.NoError(t, repo.Insert(ctx, storedMessage("m2", "landlord", "student", "", "second", 2)))
	require.NoError(t, repo.Insert(ctx, storedMessage("m1", "student", "landlord", "", "first", 1)))
	require.NoError(t, repo.Insert(ctx, storedMessage("m3", "student", "landlord", "prop-1", "other thread", 3)))
	require.NoError(t, repo.Insert(ctx, storedMessage("m4", "student", "someone", "", "unrelated", 4)))

	thread, err := repo.ListBetween(ctx, "student", "landlord", "")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "m1", thread[0].ID, "thread ascends in time")
	assert.Equal(t, "m2", thread[1].ID)

	scoped, err := repo.ListBetween(ctx, "student", "landlord", "prop-1")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "m3", scoped[0].ID)

	log, err := repo.ListForUser(ctx, "student")
	require.NoError(t, err)
	require.Len(t, log, 4)
	assert.Equal(t, "m4", log[0].ID, "user log descends in time")
	assert.Equal(t, "m1", log[3].ID)
}

func TestMessageRepositoryGeneralScopeAliases(t *testing.T) {
	repo := NewMessageRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, storedMessage("m1", "a", "b", "", "hi", 1)))

	// "general" and the empty string name the same thread.
	general, err := repo.ListBetween(ctx, "a", "b", "general")
	require.NoError(t, err)
	assert.Len(t, general, 1)
}

func TestMessageRepositoryInsertIdempotent(t *testing.T) {
	repo := NewMessageRepository()
	ctx := context.Background()

	msg := storedMessage("m1", "a", "b", "", "hi", 1)
	require.NoError(t, repo.Insert(ctx, msg))
	require.NoError(t, repo.Insert(ctx, msg))

	log, err := repo.ListForUser(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, log, 1)
}

func TestMessageRepositoryMarkRead(t *testing.T) {
	repo := NewMessageRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, storedMessage("m1", "a", "b", "", "hi", 1)))
	require.NoError(t, repo.Insert(ctx, storedMessage("m2", "a", "b", "", "there", 2)))

	require.NoError(t, repo.MarkRead(ctx, []string{"m1", "ghost"}))

	thread, err := repo.ListBetween(ctx, "a", "b", "")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.True(t, thread[0].IsRead)
	assert.False(t, thread[1].IsRead)

	// Marking again keeps the state stable.
	require.NoError(t, repo.MarkRead(ctx, []string{"m1"}))
	thread, err = repo.ListBetween(ctx, "a", "b", "")
	require.NoError(t, err)
	assert.True(t, thread[0].IsRead)
}
