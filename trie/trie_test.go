package trie_test

import (
	"testing"

	"grol.io/lits/trie"
)

func TestTrie_Insert(t *testing.T) {
	tr := trie.NewTrie()
	tr.Insert("ABC")
	if got := tr.LongestMatch("ABCD"); got != 3 {
		t.Errorf("Expected 'ABC' to match 3 bytes, got %d.", got)
	}
	if got := tr.LongestMatch("AB"); got != 0 {
		t.Errorf("Expected 'AB' not to match, got %d.", got)
	}
	// Shorter word inserted after a longer one sharing its prefix.
	tr.Insert("AB")
	if got := tr.LongestMatch("ABX"); got != 2 {
		t.Errorf("Expected 'AB' to match 2 bytes after inserting it, got %d.", got)
	}
	if got := tr.LongestMatch("ABC"); got != 3 {
		t.Errorf("Expected to still match 'ABC', got %d.", got)
	}
}

func TestTrie_LongestMatch(t *testing.T) {
	tr := trie.NewTrie("&let", "&", "&while", "&when")
	tests := []struct {
		input    string
		expected int
	}{
		{"&let [a 1]", 4},
		{"&while", 6},
		{"&whe", 1},
		{"& rest", 1},
		{"&when(", 5},
		{"let", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := tr.LongestMatch(tt.input); got != tt.expected {
			t.Errorf("LongestMatch(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
