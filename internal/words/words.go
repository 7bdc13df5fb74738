// internal/words/words.go
//
// Dictionary loading and lookup for the game engine.
//
// Responsibilities:
//   - Load a newline-delimited word list from a file (WORDS_FILE) or fall
//     back to the embedded default in assets/words.txt.
//   - Normalize entries to lowercase, drop blanks, '#' comments, duplicates
//     and anything that is not a–z.
//   - Keep the load order (FindExactWord returns the first match in it) and
//     an index keyed by sorted-letter signature for anagram lookups.
//
// A Dictionary is immutable after construction and safe for concurrent reads.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/robalobadob/wordduel/apps/go-server/assets"
)

// ErrEmpty is returned when a word list yields no usable entries.
var ErrEmpty = errors.New("words: dictionary is empty")

// Dictionary is an immutable, case-insensitive word set with load order.
type Dictionary struct {
	list  []string            // lowercase, load order, deduplicated
	set   map[string]struct{} // membership
	bySig map[string][]string // signature -> words in load order
}

// New builds a Dictionary from raw lines.
func New(lines []string) *Dictionary {
	d := &Dictionary{
		set:   make(map[string]struct{}, len(lines)),
		bySig: make(map[string][]string),
	}
	for _, line := range lines {
		w := strings.ToLower(strings.TrimSpace(line))
		if w == "" || strings.HasPrefix(w, "#") || !isAlpha(w) {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.list = append(d.list, w)
		sig := Signature(w)
		d.bySig[sig] = append(d.bySig[sig], w)
	}
	return d
}

// Init loads the dictionary from path, or from the embedded default when
// path is empty. Returns ErrEmpty if nothing usable was loaded.
func Init(path string) (*Dictionary, error) {
	var (
		lines []string
		err   error
	)
	if path != "" {
		lines, err = readWordFile(path)
	} else {
		lines, err = assets.DictionaryList()
	}
	if err != nil {
		return nil, fmt.Errorf("load word list: %w", err)
	}
	d := New(lines)
	if d.Len() == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// Contains reports whether w is in the dictionary (case-insensitive).
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToLower(w)]
	return ok
}

// Anagrams returns the dictionary words whose letters are a permutation of
// letters, in load order. The returned slice must not be modified.
func (d *Dictionary) Anagrams(letters []string) []string {
	return d.bySig[Signature(strings.Join(letters, ""))]
}

// Words returns a copy of the dictionary in load order.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.list...)
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.list) }

// Signature is the lowercase letters of s sorted ascending.
func Signature(s string) string {
	b := []byte(strings.ToLower(s))
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
