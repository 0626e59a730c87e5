package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/supportagent/supportagent/internal/agent"
	"github.com/supportagent/supportagent/internal/console"
	"github.com/supportagent/supportagent/internal/session"
)

type fakeExchanger struct {
	answers map[string]string
	fail    map[string]error
	seen    []string
	flushes int
}

func (f *fakeExchanger) Exchange(_ context.Context, sess *session.Session, text string) (*agent.Result, error) {
	f.seen = append(f.seen, text)
	if err := f.fail[text]; err != nil {
		return nil, err
	}
	answer := f.answers[text]
	sess.AppendExchange(text, answer)
	return &agent.Result{Text: answer}, nil
}

func (f *fakeExchanger) Flush(context.Context, *session.Session) error {
	f.flushes++
	return nil
}

func run(t *testing.T, input string, ex *fakeExchanger) (*session.Session, string) {
	t.Helper()
	var out bytes.Buffer
	sess := &session.Session{ID: "abc123", Messages: []session.Message{}}
	c := console.New(console.NewScannerReader(strings.NewReader(input), &out, "You: "), &out, ex, sess, nil)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return sess, out.String()
}

func TestRunUntilExitWord(t *testing.T) {
	ex := &fakeExchanger{answers: map[string]string{"2+2": "4"}}
	sess, out := run(t, "2+2\nexit\nnever read\n", ex)

	if len(ex.seen) != 1 || ex.seen[0] != "2+2" {
		t.Errorf("exchanges = %v", ex.seen)
	}
	if len(sess.Messages) != 2 {
		t.Errorf("messages = %v", sess.Messages)
	}
	if !strings.Contains(out, "Assistant: 4") {
		t.Errorf("answer not printed:\n%s", out)
	}
	if ex.flushes != 1 {
		t.Errorf("expected one final save, got %d", ex.flushes)
	}
}

func TestExitWordsAreCaseInsensitive(t *testing.T) {
	for _, word := range []string{"EXIT", "Quit", "ВЫХОД", "  выход  "} {
		ex := &fakeExchanger{}
		run(t, word+"\nhello\n", ex)
		if len(ex.seen) != 0 {
			t.Errorf("%q should end the loop, exchanges = %v", word, ex.seen)
		}
	}
}

func TestEmptyLinesIgnored(t *testing.T) {
	ex := &fakeExchanger{answers: map[string]string{"hi": "hello"}}
	run(t, "\n   \nhi\n\n", ex)
	if len(ex.seen) != 1 {
		t.Errorf("only non-empty lines should be sent, got %v", ex.seen)
	}
}

func TestEOFEndsLoopWithSave(t *testing.T) {
	ex := &fakeExchanger{answers: map[string]string{"hi": "hello"}}
	_, out := run(t, "hi", ex)
	if ex.flushes != 1 {
		t.Errorf("EOF should trigger final save, flushes = %d", ex.flushes)
	}
	if !strings.Contains(out, "Goodbye.") {
		t.Errorf("missing goodbye:\n%s", out)
	}
}

func TestFailedTurnIsReportedAndLoopContinues(t *testing.T) {
	ex := &fakeExchanger{
		answers: map[string]string{"second": "ok"},
		fail:    map[string]error{"first": errors.New("LLM call failed: timeout")},
	}
	sess, out := run(t, "first\nsecond\nquit\n", ex)

	if !strings.Contains(out, "Error: LLM call failed: timeout") {
		t.Errorf("error not printed:\n%s", out)
	}
	if len(sess.Messages) != 2 || sess.Messages[0].Content != "second" {
		t.Errorf("only the successful exchange should be recorded: %v", sess.Messages)
	}
}

type blockingReader struct{ release chan struct{} }

func (b blockingReader) ReadLine() (string, error) {
	<-b.release
	return "", io.EOF
}

func TestInterruptSavesSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := blockingReader{release: make(chan struct{})}
	defer close(r.release)

	ex := &fakeExchanger{}
	var out bytes.Buffer
	c := console.New(r, &out, ex, &session.Session{ID: "s"}, nil)
	if err := c.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ex.flushes != 1 {
		t.Errorf("interrupt should still save, flushes = %d", ex.flushes)
	}
	if !strings.Contains(out.String(), "Interrupted.") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestBanner(t *testing.T) {
	_, out := run(t, "", &fakeExchanger{})
	for _, want := range []string{"Session: abc123", "'exit', 'quit', 'выход'"} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q:\n%s", want, out)
		}
	}
}
