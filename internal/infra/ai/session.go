package ai

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"kalaghar/internal/domain/service"
)

// SessionStore keeps one assistant conversation per user, dropped after the
// configured idle TTL.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[uuid.UUID]*session
	now      func() time.Time
}

type session struct {
	messages  []service.ChatMessage
	updatedAt time.Time
}

// NewSessionStore creates a session store with the given idle TTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*session),
		now:      time.Now,
	}
}

// History returns the user's conversation so far. An expired session is
// dropped and an empty history returned.
func (s *SessionStore) History(userID uuid.UUID) []service.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	if s.now().Sub(sess.updatedAt) > s.ttl {
		delete(s.sessions, userID)

		return nil
	}

	out := make([]service.ChatMessage, len(sess.messages))
	copy(out, sess.messages)

	return out
}

// Append adds turns to the user's conversation and refreshes its TTL.
func (s *SessionStore) Append(userID uuid.UUID, messages ...service.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[userID]
	if !ok || now.Sub(sess.updatedAt) > s.ttl {
		sess = &session{}
		s.sessions[userID] = sess
	}
	sess.messages = append(sess.messages, messages...)
	sess.updatedAt = now
}

// Reset discards the user's conversation.
func (s *SessionStore) Reset(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}
