package agent_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/supportagent/supportagent/internal/agent"
	"github.com/supportagent/supportagent/internal/security"
	"github.com/supportagent/supportagent/internal/session"
	"github.com/supportagent/supportagent/internal/tools"
)

// scriptedProvider replays canned responses and records every request.
type scriptedProvider struct {
	responses []*agent.Response
	err       error
	requests  []agent.Request
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "test-model" }

func (p *scriptedProvider) Generate(_ context.Context, req agent.Request) (*agent.Response, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return &agent.Response{Text: "done"}, nil
	}
	r := p.responses[0]
	p.responses = p.responses[1:]
	return r, nil
}

func callTool(name string, args tools.Args) *agent.Response {
	return &agent.Response{ToolCalls: []agent.ToolCall{{ID: "call-" + name, Name: name, Args: args}}}
}

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r, err := tools.NewRegistry(tools.SayHelloTool(), tools.CalculateTool())
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// ─── Agent loop ───────────────────────────────────────────────────────────────

func TestRunDirectAnswer(t *testing.T) {
	p := &scriptedProvider{responses: []*agent.Response{{Text: "Hi there"}}}
	a := agent.New(p, newRegistry(t))

	history := []session.Message{{Role: "user", Content: "earlier"}, {Role: "assistant", Content: "reply"}}
	res, err := a.Run(context.Background(), history, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Hi there" || len(res.ToolsUsed) != 0 {
		t.Errorf("unexpected result %+v", res)
	}

	req := p.requests[0]
	if len(req.Turns) != 3 {
		t.Fatalf("expected history + new turn, got %d turns", len(req.Turns))
	}
	if req.Turns[1].Role != agent.RoleAssistant || req.Turns[2].Text != "hello" {
		t.Errorf("turns not built from history: %+v", req.Turns)
	}
	if len(req.Tools) != 2 || req.System == "" {
		t.Errorf("request should carry tools and system prompt: %+v", req)
	}
}

func TestRunToolRoundTrip(t *testing.T) {
	p := &scriptedProvider{responses: []*agent.Response{
		callTool("calculate", tools.Args{"expression": "2+2"}),
		{Text: "2+2 is 4"},
	}}
	a := agent.New(p, newRegistry(t))

	res, err := a.Run(context.Background(), nil, "what is 2+2?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "2+2 is 4" {
		t.Errorf("text = %q", res.Text)
	}
	if !reflect.DeepEqual(res.ToolsUsed, []string{"calculate"}) {
		t.Errorf("tools used = %v", res.ToolsUsed)
	}

	second := p.requests[1].Turns
	last := second[len(second)-1]
	if len(last.ToolResults) != 1 || last.ToolResults[0].Content != "4" || last.ToolResults[0].CallID != "call-calculate" {
		t.Errorf("tool result not fed back: %+v", last)
	}
	if second[len(second)-2].Role != agent.RoleAssistant || len(second[len(second)-2].ToolCalls) != 1 {
		t.Errorf("assistant tool call turn missing: %+v", second)
	}
}

func TestRunUnknownToolIsReportedToModel(t *testing.T) {
	p := &scriptedProvider{responses: []*agent.Response{
		callTool("fly_to_moon", nil),
		{Text: "I cannot do that"},
	}}
	var observed []string
	a := agent.New(p, newRegistry(t), agent.WithToolObserver(func(call agent.ToolCall, result string) {
		observed = append(observed, result)
	}))

	res, err := a.Run(context.Background(), nil, "fly")
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "I cannot do that" {
		t.Errorf("text = %q", res.Text)
	}
	if len(observed) != 1 || !strings.Contains(observed[0], "fly_to_moon") {
		t.Errorf("observer got %v", observed)
	}
}

func TestRunForcesFinalAnswer(t *testing.T) {
	var script []*agent.Response
	for i := 0; i < 7; i++ {
		script = append(script, callTool("say_hello", tools.Args{"name": "x"}))
	}
	script = append(script, &agent.Response{Text: "final"})
	p := &scriptedProvider{responses: script}
	a := agent.New(p, newRegistry(t))

	res, err := a.Run(context.Background(), nil, "loop")
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "final" {
		t.Errorf("text = %q", res.Text)
	}
	if len(p.requests) != 8 {
		t.Errorf("expected 8 model calls, got %d", len(p.requests))
	}
	turns := p.requests[7].Turns
	if !strings.Contains(turns[len(turns)-1].Text, "final answer") {
		t.Errorf("last request should ask for a final answer: %+v", turns[len(turns)-1])
	}
}

func TestRunMaxIterations(t *testing.T) {
	p := &scriptedProvider{responses: []*agent.Response{
		callTool("say_hello", tools.Args{"name": "a"}),
		callTool("say_hello", tools.Args{"name": "b"}),
	}}
	a := agent.New(p, newRegistry(t), agent.WithMaxIterations(2))

	_, err := a.Run(context.Background(), nil, "loop")
	if !errors.Is(err, agent.ErrMaxIterations) {
		t.Errorf("expected ErrMaxIterations, got %v", err)
	}
}

func TestRunForceAnswerFollowsMaxIterations(t *testing.T) {
	var script []*agent.Response
	for i := 0; i < 9; i++ {
		script = append(script, callTool("say_hello", tools.Args{"name": "x"}))
	}
	script = append(script, &agent.Response{Text: "final"})
	p := &scriptedProvider{responses: script}
	a := agent.New(p, newRegistry(t), agent.WithMaxIterations(12))

	res, err := a.Run(context.Background(), nil, "loop")
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "final" || len(res.ToolsUsed) != 9 {
		t.Errorf("text = %q tools = %d", res.Text, len(res.ToolsUsed))
	}
	if len(p.requests) != 10 {
		t.Fatalf("expected 10 model calls, got %d", len(p.requests))
	}
	for i, req := range p.requests[:9] {
		if last := req.Turns[len(req.Turns)-1]; strings.Contains(last.Text, "final answer") {
			t.Errorf("request %d asked for a final answer too early", i)
		}
	}
	turns := p.requests[9].Turns
	if !strings.Contains(turns[len(turns)-1].Text, "final answer") {
		t.Errorf("last request should ask for a final answer: %+v", turns[len(turns)-1])
	}
}

func TestRunProviderError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("quota exceeded")}
	a := agent.New(p, newRegistry(t))
	if _, err := a.Run(context.Background(), nil, "hi"); err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

// ─── Exchanger ────────────────────────────────────────────────────────────────

func TestExchangePersistsCompletedExchange(t *testing.T) {
	ctx := context.Background()
	store := session.NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	p := &scriptedProvider{responses: []*agent.Response{
		callTool("calculate", tools.Args{"expression": "2+2"}),
		{Text: "4"},
	}}
	ex := agent.NewExchanger(agent.New(p, newRegistry(t)), store, security.NewAuditLogger(true, nil))

	sess, err := session.Open(ctx, store, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Messages) != 0 {
		t.Fatalf("new session should be empty, got %v", sess.Messages)
	}

	if _, err := ex.Exchange(ctx, sess, "2+2"); err != nil {
		t.Fatal(err)
	}
	want := []session.Message{{Role: "user", Content: "2+2"}, {Role: "assistant", Content: "4"}}
	if !reflect.DeepEqual(sess.Messages, want) {
		t.Errorf("session = %#v", sess.Messages)
	}

	stored, err := store.Load(ctx, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stored, want) {
		t.Errorf("stored = %#v", stored)
	}
}

func TestExchangeFailureLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	store := session.NewFileStore(t.TempDir())
	p := &scriptedProvider{err: errors.New("network down")}
	ex := agent.NewExchanger(agent.New(p, newRegistry(t)), store, nil)

	sess := &session.Session{ID: "s1", Messages: []session.Message{{Role: "user", Content: "a"}, {Role: "assistant", Content: "b"}}}
	if _, err := ex.Exchange(ctx, sess, "hello"); err == nil {
		t.Fatal("expected error")
	}
	if len(sess.Messages) != 2 {
		t.Errorf("failed exchange must not append, got %d messages", len(sess.Messages))
	}
	ids, _ := store.List(ctx)
	if len(ids) != 0 {
		t.Errorf("failed exchange must not persist, found %v", ids)
	}
}

// failingStore loads empty sessions and refuses every save.
type failingStore struct{ saves int }

func (s *failingStore) Load(context.Context, string) ([]session.Message, error) { return nil, nil }
func (s *failingStore) List(context.Context) ([]string, error)                  { return nil, nil }

func (s *failingStore) Save(context.Context, string, []session.Message) error {
	s.saves++
	return errors.New("disk full")
}

func TestExchangeSaveFailureLeavesSessionUntouched(t *testing.T) {
	store := &failingStore{}
	p := &scriptedProvider{responses: []*agent.Response{{Text: "4"}}}
	ex := agent.NewExchanger(agent.New(p, newRegistry(t)), store, nil)

	history := []session.Message{{Role: "user", Content: "a"}, {Role: "assistant", Content: "b"}}
	sess := &session.Session{ID: "s1", Messages: append([]session.Message(nil), history...)}

	_, err := ex.Exchange(context.Background(), sess, "2+2")
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected save error, got %v", err)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	if !reflect.DeepEqual(sess.Messages, history) {
		t.Errorf("session changed after failed save: %#v", sess.Messages)
	}
}

func TestExchangeByIDKeepsEvenHistory(t *testing.T) {
	ctx := context.Background()
	store := session.NewFileStore(t.TempDir())
	p := &scriptedProvider{}
	ex := agent.NewExchanger(agent.New(p, newRegistry(t)), store, nil)

	for i := 0; i < 3; i++ {
		sess, res, err := ex.ExchangeByID(ctx, "web-1", "ping")
		if err != nil {
			t.Fatal(err)
		}
		if res.Text != "done" {
			t.Errorf("text = %q", res.Text)
		}
		if len(sess.Messages) != 2*(i+1) {
			t.Errorf("after %d exchanges got %d messages", i+1, len(sess.Messages))
		}
	}

	// the third request carries four history turns plus the new message
	if got := len(p.requests[2].Turns); got != 5 {
		t.Errorf("third request turns = %d, want 5", got)
	}
}

func TestFlush(t *testing.T) {
	ctx := context.Background()
	store := session.NewFileStore(t.TempDir())
	ex := agent.NewExchanger(agent.New(&scriptedProvider{}, newRegistry(t)), store, nil)

	sess := &session.Session{ID: "flush", Messages: []session.Message{}}
	if err := ex.Flush(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if ids, _ := store.List(ctx); len(ids) != 1 || ids[0] != "flush" {
		t.Errorf("flush should write the session, got %v", ids)
	}
}
