package ai

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"kalaghar/internal/domain/service"
)

func TestSessionStoreAppendAndHistory(t *testing.T) {
	t.Parallel()

	s := NewSessionStore(30 * time.Minute)
	userID := uuid.New()

	assert.Empty(t, s.History(userID))

	s.Append(userID,
		service.ChatMessage{Role: "user", Text: "hi"},
		service.ChatMessage{Role: "model", Text: "hello"})

	history := s.History(userID)
	assert.Len(t, history, 2)

	// returned slice is a copy
	history[0].Text = "mutated"
	assert.Equal(t, "hi", s.History(userID)[0].Text)
}

func TestSessionStoreTTLExpiry(t *testing.T) {
	t.Parallel()

	s := NewSessionStore(10 * time.Minute)
	userID := uuid.New()

	current := time.Now()
	s.now = func() time.Time { return current }

	s.Append(userID, service.ChatMessage{Role: "user", Text: "hi"})
	assert.Len(t, s.History(userID), 1)

	current = current.Add(11 * time.Minute)
	assert.Empty(t, s.History(userID))

	// appending after expiry starts a fresh conversation
	s.Append(userID, service.ChatMessage{Role: "user", Text: "again"})
	assert.Len(t, s.History(userID), 1)
}

func TestSessionStoreReset(t *testing.T) {
	t.Parallel()

	s := NewSessionStore(time.Hour)
	userID := uuid.New()

	s.Append(userID, service.ChatMessage{Role: "user", Text: "hi"})
	s.Reset(userID)
	assert.Empty(t, s.History(userID))
}
