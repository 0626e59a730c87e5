package console

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// LineReader yields one line of user input per call. io.EOF ends the session.
type LineReader interface {
	ReadLine() (string, error)
}

// ScannerReader reads newline-terminated input, printing prompt before each line.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

func NewScannerReader(in io.Reader, out io.Writer, prompt string) *ScannerReader {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ScannerReader{scanner: s, out: out, prompt: prompt}
}

func (r *ScannerReader) ReadLine() (string, error) {
	if r.prompt != "" && r.out != nil {
		fmt.Fprint(r.out, r.prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// TerminalReader is a line editor on a TTY. The terminal is put in raw mode
// only while a line is being read.
type TerminalReader struct {
	t  *term.Terminal
	fd int
}

func NewTerminalReader(f *os.File, prompt string) *TerminalReader {
	return &TerminalReader{t: term.NewTerminal(f, prompt), fd: int(f.Fd())}
}

func (r *TerminalReader) ReadLine() (string, error) {
	oldState, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", fmt.Errorf("enter raw mode: %w", err)
	}
	if width, height, err := term.GetSize(r.fd); err == nil {
		r.t.SetSize(width, height)
	}

	line, err := r.t.ReadLine()
	restoreErr := term.Restore(r.fd, oldState)
	if err != nil {
		return "", err
	}
	if restoreErr != nil {
		return "", fmt.Errorf("restore terminal: %w", restoreErr)
	}
	return line, nil
}

// NewReader picks the line editor when in is a terminal and a plain scanner
// otherwise (pipes, redirected files).
func NewReader(in *os.File, out io.Writer, prompt string) LineReader {
	if term.IsTerminal(int(in.Fd())) {
		return NewTerminalReader(in, prompt)
	}
	return NewScannerReader(in, out, prompt)
}
