package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const fileExt = ".json"

// FileStore keeps one JSON file per session in Dir. Concurrent writers to the
// same id are not coordinated.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.Dir, id+fileExt)
}

// Load returns the stored history. A missing file is a new session and a
// corrupt file is logged and treated the same way.
func (s *FileStore) Load(_ context.Context, id string) ([]Message, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		log.Warn().Err(err).Str("session_id", id).Str("path", s.path(id)).Msg("session file is corrupt, starting empty")
		return []Message{}, nil
	}
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs, nil
}

// Save overwrites the session file with the full history.
func (s *FileStore) Save(_ context.Context, id string, messages []Message) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if messages == nil {
		messages = []Message{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(messages); err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}

	if err := os.WriteFile(s.path(id), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", id, err)
	}
	return nil
}

// List returns the ids of all stored sessions, sorted.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// Ping reports whether the directory is usable.
func (s *FileStore) Ping(_ context.Context) error {
	return os.MkdirAll(s.Dir, 0o755)
}
