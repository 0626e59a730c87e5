// Package console drives the interactive chat loop: read a line, run one
// exchange, print the answer, repeat until an exit word, EOF or a signal.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/agent"
	"github.com/supportagent/supportagent/internal/session"
)

var DefaultExitWords = []string{"exit", "quit", "выход"}

// Exchanger runs one exchange and persists it. Implemented by *agent.Exchanger.
type Exchanger interface {
	Exchange(ctx context.Context, sess *session.Session, text string) (*agent.Result, error)
	Flush(ctx context.Context, sess *session.Session) error
}

type Console struct {
	in        LineReader
	out       io.Writer
	exchanger Exchanger
	sess      *session.Session
	exitWords []string
}

func New(in LineReader, out io.Writer, ex Exchanger, sess *session.Session, exitWords []string) *Console {
	if len(exitWords) == 0 {
		exitWords = DefaultExitWords
	}
	return &Console{in: in, out: out, exchanger: ex, sess: sess, exitWords: exitWords}
}

type lineResult struct {
	line string
	err  error
}

// Run loops until the user leaves or ctx is cancelled, then saves the session
// one last time. The returned error is only set for read or final save failures.
func (c *Console) Run(ctx context.Context) error {
	c.banner()

	lines := make(chan lineResult, 1)
	next := func() {
		go func() {
			line, err := c.in.ReadLine()
			lines <- lineResult{line, err}
		}()
	}

	var runErr error
	next()
loop:
	for {
		var lr lineResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out, "\nInterrupted.")
			break loop
		case lr = <-lines:
		}

		if lr.err != nil {
			if !errors.Is(lr.err, io.EOF) {
				runErr = fmt.Errorf("read input: %w", lr.err)
			}
			fmt.Fprintln(c.out)
			break
		}

		text := strings.TrimSpace(lr.line)
		if text == "" {
			next()
			continue
		}
		if c.isExit(text) {
			break
		}

		res, err := c.exchanger.Exchange(ctx, c.sess, text)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(c.out, "\nInterrupted.")
				break
			}
			fmt.Fprintf(c.out, "Error: %v\n", err)
			fmt.Fprintln(c.out, "Try rephrasing your request.")
			next()
			continue
		}
		fmt.Fprintf(c.out, "Assistant: %s\n\n", res.Text)
		next()
	}

	fmt.Fprintln(c.out, "Goodbye.")
	if err := c.exchanger.Flush(context.WithoutCancel(ctx), c.sess); err != nil {
		log.Error().Err(err).Str("session_id", c.sess.ID).Msg("final save failed")
		return errors.Join(runErr, err)
	}
	return runErr
}

func (c *Console) banner() {
	fmt.Fprintln(c.out, "=== Support Agent ===")
	fmt.Fprintf(c.out, "Session: %s (%d messages)\n", c.sess.ID, len(c.sess.Messages))
	fmt.Fprintf(c.out, "Type %s to leave.\n\n", strings.Join(quoted(c.exitWords), ", "))
}

func (c *Console) isExit(text string) bool {
	for _, w := range c.exitWords {
		if strings.EqualFold(text, w) {
			return true
		}
	}
	return false
}

func quoted(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = "'" + w + "'"
	}
	return out
}
