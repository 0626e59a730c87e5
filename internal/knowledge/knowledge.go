// Package knowledge answers questions from a static JSON file of FAQ entries.
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrFileMissing means the knowledge file does not exist.
	ErrFileMissing = errors.New("knowledge base file not found")
	// ErrFileCorrupt means the file exists but cannot be read or decoded.
	ErrFileCorrupt = errors.New("knowledge base file is unreadable or corrupt")
)

// Entry is one FAQ record.
type Entry struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Format renders the entry the way it is returned to the model.
func (e Entry) Format() string {
	return fmt.Sprintf("[%s] Q: %s\nA: %s", e.Category, e.Question, e.Answer)
}

// Base reads entries from Path on every lookup so edits are picked up
// without a restart.
type Base struct {
	Path string
}

func New(path string) *Base {
	return &Base{Path: path}
}

// Load reads and decodes the whole file.
func (b *Base) Load() ([]Entry, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, b.Path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrFileCorrupt, b.Path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileCorrupt, b.Path, err)
	}
	return entries, nil
}

// Search returns the first entry whose question equals query ignoring case.
// Without an exact hit it falls back to every entry whose question or
// category contains the query. The fallback collects all hits while the exact
// pass stops at the first one.
func (b *Base) Search(query string) ([]Entry, error) {
	entries, err := b.Load()
	if err != nil {
		return nil, err
	}
	return Match(entries, query), nil
}

// Match runs the lookup rules of Search over already loaded entries.
func Match(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	for _, e := range entries {
		if strings.ToLower(strings.TrimSpace(e.Question)) == q {
			return []Entry{e}
		}
	}

	var matches []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Question), q) || strings.Contains(strings.ToLower(e.Category), q) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Lookup is the text form of Search used by the knowledge_base tool. File
// problems and empty results are reported as distinct messages.
func (b *Base) Lookup(query string) string {
	matches, err := b.Search(query)
	switch {
	case errors.Is(err, ErrFileMissing):
		return fmt.Sprintf("Knowledge base file not found: %s", b.Path)
	case err != nil:
		return fmt.Sprintf("Knowledge base file is unreadable or corrupt: %s", b.Path)
	case len(matches) == 0:
		return NoInformation(query)
	}

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m.Format()
	}
	return strings.Join(parts, "\n\n")
}

// NoInformation is the fixed reply for a query without matches.
func NoInformation(query string) string {
	return fmt.Sprintf("No information found for %q.", query)
}
