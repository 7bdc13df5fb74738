// internal/game/rules.go
//
// Exact-word rules: a word is valid for a pool only if it uses every pooled
// letter exactly once (duplicates counted) and is in the dictionary.

package game

import "strings"

// Lexicon is the read-only dictionary the rules consult.
type Lexicon interface {
	// Contains reports case-insensitive membership.
	Contains(word string) bool
	// Anagrams returns the words that are permutations of letters, in load order.
	Anagrams(letters []string) []string
}

// IsExactWord reports whether word is a case-insensitive permutation of pool
// and appears in lex.
func IsExactWord(lex Lexicon, word string, pool []string) bool {
	word = strings.ToUpper(word)
	if len(word) != len(pool) {
		return false
	}

	remaining := make([]string, len(pool))
	for i, l := range pool {
		remaining[i] = strings.ToUpper(l)
	}
	for _, r := range word {
		i := indexOf(remaining, string(r))
		if i < 0 {
			return false
		}
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return len(remaining) == 0 && lex.Contains(strings.ToLower(word))
}

// FindExactWord returns the first dictionary word, in load order, that is an
// exact word for pool. The result is uppercase.
func FindExactWord(lex Lexicon, pool []string) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	for _, w := range lex.Anagrams(pool) {
		if IsExactWord(lex, w, pool) {
			return strings.ToUpper(w), true
		}
	}
	return "", false
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
