package chat

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domainchat "unilodge/internal/domain/chat"
	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
)

// stubMessages is an in-memory chat.Repository with hooks for failure
// injection and call counting.
type stubMessages struct {
	mu               sync.Mutex
	messages         []domainchat.Message
	markCalls        [][]string
	failMark         bool
	failInsert       bool
	listForUserCalls int
	listBetweenHook  func()
}

func (s *stubMessages) ListBetween(ctx context.Context, userID, otherUserID, propertyID string) ([]domainchat.Message, error) {
	s.mu.Lock()
	hook := s.listBetweenHook
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	scope := domainchat.PropertyScope(propertyID)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domainchat.Message{}
	for _, m := range s.messages {
		between := (m.SenderID == userID && m.ReceiverID == otherUserID) ||
			(m.SenderID == otherUserID && m.ReceiverID == userID)
		if between && m.PropertyID == scope {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *stubMessages) ListForUser(ctx context.Context, userID string) ([]domainchat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listForUserCalls++
	out := []domainchat.Message{}
	for _, m := range s.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *stubMessages) Insert(ctx context.Context, msg domainchat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert {
		return errors.New("insert refused")
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *stubMessages) MarkRead(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markCalls = append(s.markCalls, append([]string(nil), ids...))
	if s.failMark {
		return errors.New("mark refused")
	}
	for _, id := range ids {
		for i := range s.messages {
			if s.messages[i].ID == id {
				s.messages[i].IsRead = true
			}
		}
	}
	return nil
}

type stubUsers struct {
	mu    sync.Mutex
	byID  map[string]*domainuser.User
	calls map[string]int
}

func newStubUsers(users ...*domainuser.User) *stubUsers {
	s := &stubUsers{byID: map[string]*domainuser.User{}, calls: map[string]int{}}
	for _, u := range users {
		s.byID[string(u.ID)] = u
	}
	return s
}

func (s *stubUsers) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[string(id)]++
	if u, ok := s.byID[string(id)]; ok {
		copyUser := *u
		return &copyUser, nil
	}
	return nil, domainuser.ErrNotFound
}

func (s *stubUsers) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	return nil, domainuser.ErrNotFound
}

func (s *stubUsers) Save(ctx context.Context, u *domainuser.User) error { return nil }

func (s *stubUsers) callsFor(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[id]
}

type stubProperties struct {
	byID map[string]*domainproperty.Property
}

func (s *stubProperties) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	if p, ok := s.byID[string(id)]; ok {
		return p, nil
	}
	return nil, domainproperty.ErrNotFound
}

func (s *stubProperties) Search(ctx context.Context, params domainproperty.SearchParams) ([]*domainproperty.Property, error) {
	return nil, nil
}

func (s *stubProperties) ListByLandlord(ctx context.Context, landlordID domainuser.ID) ([]*domainproperty.Property, error) {
	return nil, nil
}

func (s *stubProperties) ListFeatured(ctx context.Context, limit int) ([]*domainproperty.Property, error) {
	return nil, nil
}

func (s *stubProperties) Save(ctx context.Context, p *domainproperty.Property) error { return nil }

type capturePublisher struct {
	mu        sync.Mutex
	published []domainchat.Message
}

func (p *capturePublisher) MessageSent(ctx context.Context, msg domainchat.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, msg)
	return nil
}

func testUser(id, name, role string) *domainuser.User {
	return &domainuser.User{
		ID:       domainuser.ID(id),
		Email:    id + "@example.com",
		FullName: name,
		Role:     domainuser.Role(role),
	}
}

func seeded(id, sender, receiver, propertyID, content string, read bool, minute int) domainchat.Message {
	return domainchat.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		PropertyID: propertyID,
		Content:    content,
		IsRead:     read,
		CreatedAt:  time.Date(2026, 3, 1, 10, minute, 0, 0, time.UTC),
	}
}

func newTestService(repo *stubMessages, users *stubUsers) (*Service, *capturePublisher) {
	pub := &capturePublisher{}
	return &Service{
		Messages:   repo,
		Users:      users,
		Properties: &stubProperties{byID: map[string]*domainproperty.Property{}},
		Publisher:  pub,
	}, pub
}

func TestConversationsEmptyUserIDYieldsEmptyList(t *testing.T) {
	svc, _ := newTestService(&stubMessages{}, newStubUsers())
	convs, err := svc.Conversations(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, convs)
}

func TestOpenThreadMarksInboundUnreadRead(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "landlord", "student", "", "hi", false, 1),
		seeded("m2", "student", "landlord", "", "hello", false, 2),
		seeded("m3", "landlord", "student", "", "still there?", false, 3),
	}}
	svc, _ := newTestService(repo, newStubUsers(testUser("landlord", "Lena", "landlord")))

	msgs, err := svc.OpenThread(context.Background(), "student", "landlord", "")
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	// Ascending order and local read flags flipped for inbound rows.
	assert.Equal(t, "m1", msgs[0].ID)
	assert.True(t, msgs[0].IsRead)
	assert.False(t, msgs[1].IsRead, "own outbound message untouched")
	assert.True(t, msgs[2].IsRead)

	require.Len(t, repo.markCalls, 1)
	assert.ElementsMatch(t, []string{"m1", "m3"}, repo.markCalls[0])

	// Second open finds nothing unread.
	_, err = svc.OpenThread(context.Background(), "student", "landlord", "")
	require.NoError(t, err)
	assert.Len(t, repo.markCalls, 1)
}

func TestMarkThreadReadIdempotent(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "landlord", "student", "prop-1", "hi", false, 1),
		seeded("m2", "landlord", "student", "prop-1", "hey", false, 2),
	}}
	svc, _ := newTestService(repo, newStubUsers())

	n, err := svc.MarkThreadRead(context.Background(), "student", "landlord", "prop-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.MarkThreadRead(context.Background(), "student", "landlord", "prop-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMarkReadFailureIsSwallowed(t *testing.T) {
	repo := &stubMessages{
		failMark: true,
		messages: []domainchat.Message{seeded("m1", "landlord", "student", "", "hi", false, 1)},
	}
	svc, _ := newTestService(repo, newStubUsers())

	msgs, err := svc.OpenThread(context.Background(), "student", "landlord", "")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	// Store rejected the update, so the local flag must not lie.
	assert.False(t, msgs[0].IsRead)

	n, err := svc.MarkThreadRead(context.Background(), "student", "landlord", "")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSendValidatesAndPublishes(t *testing.T) {
	repo := &stubMessages{}
	users := newStubUsers(testUser("landlord", "Lena", "landlord"))
	svc, pub := newTestService(repo, users)
	ctx := context.Background()

	_, err := svc.Send(ctx, "student", "student", "", "hi")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.Send(ctx, "student", "landlord", "", "   ")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.Send(ctx, "student", "nobody", "", "hi")
	assert.Equal(t, codes.NotFound, status.Code(err))

	msg, err := svc.Send(ctx, "student", "landlord", "general", "hi there")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "", msg.PropertyID, "general scope stored as empty string")
	assert.False(t, msg.IsRead)

	require.Len(t, repo.messages, 1)
	require.Len(t, pub.published, 1)
	assert.Equal(t, msg.ID, pub.published[0].ID)
}

func TestSendInsertFailureIsUnavailable(t *testing.T) {
	repo := &stubMessages{failInsert: true}
	svc, pub := newTestService(repo, newStubUsers(testUser("landlord", "Lena", "landlord")))

	_, err := svc.Send(context.Background(), "student", "landlord", "", "hi")
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Empty(t, pub.published, "nothing published for failed insert")
}

func TestConversationsWithDraftPrependsPlaceholder(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "other", "student", "", "existing", false, 1),
	}}
	users := newStubUsers(
		testUser("other", "Omar", "landlord"),
		testUser("landlord", "Lena", "landlord"),
	)
	svc, _ := newTestService(repo, users)

	convs, err := svc.ConversationsWithDraft(context.Background(), "student", "landlord", "general")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.True(t, convs[0].Draft)
	assert.Equal(t, "landlord", convs[0].OtherUser.ID)
	assert.Equal(t, DraftPlaceholder, convs[0].LastMessage.Content)
	assert.False(t, convs[1].Draft)
}

func TestConversationsWithDraftSkipsExistingThread(t *testing.T) {
	repo := &stubMessages{messages: []domainchat.Message{
		seeded("m1", "landlord", "student", "", "already talking", false, 1),
	}}
	svc, _ := newTestService(repo, newStubUsers(testUser("landlord", "Lena", "landlord")))

	convs, err := svc.ConversationsWithDraft(context.Background(), "student", "landlord", "")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.False(t, convs[0].Draft)
}

func TestConversationsWithDraftUnknownLandlordDegrades(t *testing.T) {
	svc, _ := newTestService(&stubMessages{}, newStubUsers())
	convs, err := svc.ConversationsWithDraft(context.Background(), "student", "ghost", "")
	require.NoError(t, err)
	assert.Empty(t, convs)
}
