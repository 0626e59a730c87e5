// Package session keeps conversation history per session id.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrInvalidID = errors.New("invalid session id")

// Message is one persisted turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is an ordered message history under an id.
type Session struct {
	ID       string
	Messages []Message
}

// AppendExchange records a completed user/assistant pair.
func (s *Session) AppendExchange(user, assistant string) {
	s.Messages = append(s.Messages,
		Message{Role: RoleUser, Content: user},
		Message{Role: RoleAssistant, Content: assistant},
	)
}

// Store persists whole message histories. Save always overwrites.
type Store interface {
	Load(ctx context.Context, id string) ([]Message, error)
	Save(ctx context.Context, id string, messages []Message) error
	List(ctx context.Context) ([]string, error)
}

// Open loads a session, starting an empty one when nothing is stored yet.
func Open(ctx context.Context, store Store, id string) (*Session, error) {
	msgs, err := store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []Message{}
	}
	return &Session{ID: id, Messages: msgs}, nil
}

// NewID returns a short random token.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ValidateID rejects ids that are empty or could escape the storage directory.
func ValidateID(id string) error {
	if id == "" || len(id) > 128 {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
