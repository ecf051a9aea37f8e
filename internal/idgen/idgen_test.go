package idgen

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.HasPrefix(id, TaskPrefix) {
		t.Errorf("Generate() = %q, want prefix %q", id, TaskPrefix)
	}
	if got := len(id) - len(TaskPrefix); got != Length {
		t.Errorf("random part len = %d, want %d", got, Length)
	}
	for _, c := range strings.TrimPrefix(id, TaskPrefix) {
		if !strings.ContainsRune(Alphabet, c) {
			t.Errorf("unexpected character %q in %q", c, id)
		}
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id, err := GenerateWithPrefix(HistoryPrefix)
		if err != nil {
			t.Fatalf("GenerateWithPrefix() error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}
