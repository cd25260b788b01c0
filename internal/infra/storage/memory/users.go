package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainauth "unilodge/internal/domain/auth"
	domainuser "unilodge/internal/domain/user"
)

// UserRepository stores accounts in memory for dev and tests. Values are
// copied on the way in and out so callers cannot alias stored state.
type UserRepository struct {
	mu      sync.RWMutex
	users   map[domainuser.ID]domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[domainuser.ID]domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	if user == nil || strings.TrimSpace(string(user.ID)) == "" {
		return domainuser.ErrIDRequired
	}
	key := emailKey(user.Email)
	if key == "" {
		return domainuser.ErrEmailRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ownerID, taken := r.byEmail[key]; taken && ownerID != user.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	// Re-key the email index when an existing account changed address.
	if previous, ok := r.users[user.ID]; ok {
		if oldKey := emailKey(previous.Email); oldKey != key {
			delete(r.byEmail, oldKey)
		}
	}
	r.byEmail[key] = user.ID
	r.users[user.ID] = *user
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SessionStore keeps bearer sessions in memory, expiring them lazily on read.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domainauth.Token]domainauth.Session
	byUser   map[domainuser.ID]map[domainauth.Token]struct{}
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domainauth.Token]domainauth.Session),
		byUser:   make(map[domainuser.ID]map[domainauth.Token]struct{}),
	}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = *session
	tokens, ok := s.byUser[session.UserID]
	if !ok {
		tokens = make(map[domainauth.Token]struct{})
		s.byUser[session.UserID] = tokens
	}
	tokens[session.Token] = struct{}{}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		_ = s.Delete(ctx, token)
		return nil, domainauth.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil
	}
	delete(s.sessions, token)
	s.dropUserToken(session.UserID, token)
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.byUser[userID] {
		delete(s.sessions, token)
	}
	delete(s.byUser, userID)
	return nil
}

// dropUserToken prunes the per-user index; callers hold the mutex.
func (s *SessionStore) dropUserToken(userID domainuser.ID, token domainauth.Token) {
	tokens, ok := s.byUser[userID]
	if !ok {
		return
	}
	delete(tokens, token)
	if len(tokens) == 0 {
		delete(s.byUser, userID)
	}
}

var _ domainuser.Repository = (*UserRepository)(nil)
var _ domainauth.SessionStore = (*SessionStore)(nil)
