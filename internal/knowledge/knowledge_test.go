package knowledge_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/supportagent/supportagent/internal/knowledge"
)

const faq = `[
  {"category": "Delivery", "question": "How long does delivery take?", "answer": "3-5 days"},
  {"category": "Delivery", "question": "Do you deliver abroad?", "answer": "Yes, to 40 countries"},
  {"category": "Returns", "question": "How do I return an item?", "answer": "Use the returns form"},
  {"category": "Returns", "question": "how long does delivery take?", "answer": "duplicate question"}
]`

func writeBase(t *testing.T, content string) *knowledge.Base {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return knowledge.New(path)
}

func TestSearchExactMatchIgnoresCase(t *testing.T) {
	kb := writeBase(t, faq)

	got, err := kb.Search("HOW LONG DOES DELIVERY TAKE?")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("exact match should stop at first hit, got %d entries", len(got))
	}
	if got[0].Answer != "3-5 days" {
		t.Errorf("answer = %q, want %q", got[0].Answer, "3-5 days")
	}
}

func TestSearchSubstringFallbackCollectsAll(t *testing.T) {
	kb := writeBase(t, faq)

	got, err := kb.Search("delivery")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	// both Delivery entries by category plus the Returns entry whose question mentions delivery
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d: %+v", len(got), got)
	}

	got, err = kb.Search("return")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 matches for 'return', got %d", len(got))
	}
}

func TestLookupScenario(t *testing.T) {
	kb := writeBase(t, `[{"category": "Delivery", "question": "How long does delivery take?", "answer": "3-5 days"}]`)

	want := "[Delivery] Q: How long does delivery take?\nA: 3-5 days"
	if got := kb.Lookup("how long does delivery take?"); got != want {
		t.Errorf("exact lookup = %q, want %q", got, want)
	}
	if got := kb.Lookup("delivery"); got != want {
		t.Errorf("fallback lookup = %q, want %q", got, want)
	}
}

func TestLookupJoinsMultipleEntries(t *testing.T) {
	kb := writeBase(t, faq)
	got := kb.Lookup("returns")
	if strings.Count(got, "Q: ") != 2 {
		t.Errorf("expected two formatted entries, got %q", got)
	}
	if !strings.Contains(got, "\n\n") {
		t.Errorf("entries should be separated by a blank line: %q", got)
	}
}

func TestLookupMessages(t *testing.T) {
	kb := writeBase(t, faq)
	if got := kb.Lookup("warranty"); got != knowledge.NoInformation("warranty") {
		t.Errorf("no-match message = %q", got)
	}
	if got := kb.Lookup("   "); got != knowledge.NoInformation("   ") {
		t.Errorf("blank query should not match anything, got %q", got)
	}

	missing := knowledge.New(filepath.Join(t.TempDir(), "absent.json"))
	if got := missing.Lookup("delivery"); !strings.HasPrefix(got, "Knowledge base file not found") {
		t.Errorf("missing file message = %q", got)
	}

	corrupt := writeBase(t, `{"not": "an array"`)
	if got := corrupt.Lookup("delivery"); !strings.HasPrefix(got, "Knowledge base file is unreadable or corrupt") {
		t.Errorf("corrupt file message = %q", got)
	}
}

func TestSearchErrors(t *testing.T) {
	missing := knowledge.New(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := missing.Search("x"); !errors.Is(err, knowledge.ErrFileMissing) {
		t.Errorf("expected ErrFileMissing, got %v", err)
	}

	corrupt := writeBase(t, `[{"category": 1}]`)
	if _, err := corrupt.Search("x"); !errors.Is(err, knowledge.ErrFileCorrupt) {
		t.Errorf("expected ErrFileCorrupt, got %v", err)
	}
}

func TestSearchReadsFreshOnEachCall(t *testing.T) {
	kb := writeBase(t, `[]`)
	if got := kb.Lookup("delivery"); got != knowledge.NoInformation("delivery") {
		t.Fatalf("empty base should not match: %q", got)
	}
	if err := os.WriteFile(kb.Path, []byte(faq), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := kb.Lookup("delivery"); got == knowledge.NoInformation("delivery") {
		t.Error("lookup should see the rewritten file")
	}
}
