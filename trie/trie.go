// Trie implements a byte trie data structure used by the lexer to find the
// longest fixed symbol (reserved name, modifier) at the current position.
// It uses arrays instead of maps as the symbol sets are tiny.
package trie // import "grol.io/lits/trie"

type Trie struct {
	children [256]*Trie
	// This node is the end of an inserted word (it may still have children).
	valid bool
}

func NewTrie(words ...string) *Trie {
	t := &Trie{}
	for _, w := range words {
		t.Insert(w)
	}
	return t
}

func (t *Trie) Insert(word string) {
	for i := range len(word) {
		char := word[i]
		if t.children[char] == nil {
			t.children[char] = &Trie{}
		}
		t = t.children[char]
	}
	t.valid = true
}

// LongestMatch returns the length of the longest inserted word that input
// starts with, 0 if none.
func (t *Trie) LongestMatch(input string) int {
	best := 0
	for i := range len(input) {
		t = t.children[input[i]]
		if t == nil {
			break
		}
		if t.valid {
			best = i + 1
		}
	}
	return best
}
