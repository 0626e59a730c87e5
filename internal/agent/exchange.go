package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/security"
	"github.com/supportagent/supportagent/internal/session"
)

// Exchanger runs exchanges against sessions and persists the ones that
// complete. A failed exchange leaves both the session and the store untouched.
type Exchanger struct {
	agent *Agent
	store session.Store
	audit *security.AuditLogger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is dropped from the map once no exchange holds or waits on it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewExchanger(a *Agent, store session.Store, audit *security.AuditLogger) *Exchanger {
	return &Exchanger{
		agent: a,
		store: store,
		audit: audit,
		locks: make(map[string]*sessionLock),
	}
}

func (e *Exchanger) Agent() *Agent { return e.agent }

func (e *Exchanger) Store() session.Store { return e.store }

// Exchange sends text with sess's history to the model, then appends the
// user/assistant pair to sess and saves it.
func (e *Exchanger) Exchange(ctx context.Context, sess *session.Session, text string) (*Result, error) {
	start := time.Now()
	res, err := e.agent.Run(ctx, sess.Messages, text)
	if err != nil {
		e.logExchange(sess.ID, text, nil, start, err)
		return nil, fmt.Errorf("exchange: %w", err)
	}

	for _, tr := range res.ToolResults {
		e.audit.LogToolCall(sess.ID, tr.Name, len(tr.Content))
	}

	next := make([]session.Message, len(sess.Messages), len(sess.Messages)+2)
	copy(next, sess.Messages)
	updated := session.Session{ID: sess.ID, Messages: next}
	updated.AppendExchange(text, res.Text)

	if err := e.store.Save(ctx, sess.ID, updated.Messages); err != nil {
		e.logExchange(sess.ID, text, res.ToolsUsed, start, err)
		return nil, fmt.Errorf("persist session: %w", err)
	}
	sess.Messages = updated.Messages

	e.logExchange(sess.ID, text, res.ToolsUsed, start, nil)
	return res, nil
}

// ExchangeByID loads the session, runs one exchange and returns the updated
// session. Exchanges on the same id are serialized.
func (e *Exchanger) ExchangeByID(ctx context.Context, id, text string) (*session.Session, *Result, error) {
	unlock := e.lock(id)
	defer unlock()

	sess, err := session.Open(ctx, e.store, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	res, err := e.Exchange(ctx, sess, text)
	if err != nil {
		return sess, nil, err
	}
	return sess, res, nil
}

// Flush writes sess as it is. Used on shutdown.
func (e *Exchanger) Flush(ctx context.Context, sess *session.Session) error {
	if err := e.store.Save(ctx, sess.ID, sess.Messages); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	log.Debug().Str("session_id", sess.ID).Int("messages", len(sess.Messages)).Msg("session flushed")
	return nil
}

func (e *Exchanger) lock(id string) (unlock func()) {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sessionLock{}
		e.locks[id] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		e.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(e.locks, id)
		}
		e.mu.Unlock()
	}
}

func (e *Exchanger) logExchange(id, prompt string, toolsUsed []string, start time.Time, err error) {
	evt := security.ExchangeEvent{
		SessionID:       id,
		Provider:        e.agent.provider.Name(),
		Model:           e.agent.provider.Model(),
		Prompt:          prompt,
		ToolsUsed:       toolsUsed,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		Success:         err == nil,
	}
	if err != nil {
		evt.Error = err.Error()
		log.Error().Err(err).Str("session_id", id).Msg("exchange failed")
	}
	e.audit.LogExchange(evt)
}
