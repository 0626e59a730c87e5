package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/supportagent/supportagent/internal/session"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	out := execute(t, "version")
	if !strings.Contains(out, "supportagent version "+Version) {
		t.Errorf("output:\n%s", out)
	}
}

func TestToolsCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ELASTICSEARCH_ENABLED", "false")
	out := execute(t, "tools")
	for _, name := range []string{"say_hello", "calculate", "current_time", "web_search", "knowledge_base", "create_ticket"} {
		if !strings.Contains(out, name) {
			t.Errorf("tool %s missing:\n%s", name, out)
		}
	}
	if strings.Contains(out, "search_documents") {
		t.Error("search_documents should be absent without Elasticsearch")
	}
}

func TestSessionsCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("SESSION_DIR", filepath.Join(dir, "sessions"))

	if out := execute(t, "sessions", "list"); !strings.Contains(out, "No sessions.") {
		t.Errorf("list on empty store:\n%s", out)
	}

	store := session.NewFileStore(filepath.Join(dir, "sessions"))
	if err := store.Save(t.Context(), "abc123", []session.Message{
		{Role: "user", Content: "2+2"},
		{Role: "assistant", Content: "4"},
	}); err != nil {
		t.Fatal(err)
	}

	if out := execute(t, "sessions", "list"); strings.TrimSpace(out) != "abc123" {
		t.Errorf("list:\n%s", out)
	}
	out := execute(t, "sessions", "show", "abc123")
	if !strings.Contains(out, "[user] 2+2") || !strings.Contains(out, "[assistant] 4") {
		t.Errorf("show:\n%s", out)
	}
}

func TestChatRequiresCredential(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGENT_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")
	os.Unsetenv("ANTHROPIC_API_KEY")

	rootCmd.SetArgs([]string{"chat"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("expected missing credential error, got %v", err)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct{ in, want string }{
		{"4", "4"},
		{"line one\nline two", "line one ..."},
		{strings.Repeat("x", 120), strings.Repeat("x", 100) + "..."},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in, 100); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
