package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/robalobadob/wordduel/apps/go-server/internal/words"
)

func testLexicon() *words.Dictionary {
	return words.New([]string{"cat", "dog", "sun", "car", "arc", "bat", "stop", "pots", "tops", "letter", "cats"})
}

func TestIsExactWord(t *testing.T) {
	lex := testLexicon()
	tests := []struct {
		name string
		word string
		pool []string
		want bool
	}{
		{"exact", "CAT", []string{"C", "A", "T"}, true},
		{"lowercase word", "cat", []string{"C", "A", "T"}, true},
		{"lowercase pool", "CAT", []string{"c", "a", "t"}, true},
		{"permuted pool", "CAT", []string{"T", "C", "A"}, true},
		{"anagram not in dictionary", "ACT", []string{"C", "A", "T"}, false},
		{"too short", "CAT", []string{"C", "A", "T", "Z"}, false},
		{"too long", "CATS", []string{"C", "A", "T"}, false},
		{"letter missing", "DOG", []string{"C", "A", "T"}, false},
		{"duplicate letters counted", "LETTER", []string{"L", "E", "T", "T", "E", "R"}, true},
		{"duplicate short", "LETTER", []string{"L", "E", "T", "X", "E", "R"}, false},
		{"empty", "", []string{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExactWord(lex, tt.word, tt.pool); got != tt.want {
				t.Fatalf("IsExactWord(%q, %v) = %v, want %v", tt.word, tt.pool, got, tt.want)
			}
		})
	}
}

func TestIsExactWordDoesNotMutatePool(t *testing.T) {
	pool := []string{"C", "A", "T"}
	IsExactWord(testLexicon(), "CAT", pool)
	if pool[0] != "C" || pool[1] != "A" || pool[2] != "T" || len(pool) != 3 {
		t.Fatalf("pool mutated: %v", pool)
	}
}

func TestIsExactWordPermutationInvariant(t *testing.T) {
	lex := testLexicon()
	rng := rand.New(rand.NewSource(7))
	cases := []struct {
		word string
		pool []string
	}{
		{"STOP", []string{"S", "T", "O", "P"}},
		{"LETTER", []string{"L", "E", "T", "T", "E", "R"}},
		{"ACT", []string{"C", "A", "T"}},
		{"DOG", []string{"D", "O", "G", "G"}},
	}
	for _, c := range cases {
		want := IsExactWord(lex, c.word, c.pool)
		for i := 0; i < 20; i++ {
			p := append([]string{}, c.pool...)
			rng.Shuffle(len(p), func(a, b int) { p[a], p[b] = p[b], p[a] })
			if got := IsExactWord(lex, c.word, p); got != want {
				t.Fatalf("IsExactWord(%q, %v) = %v, want %v (original order %v)", c.word, p, got, want, c.pool)
			}
		}
	}
}

func TestFindExactWord(t *testing.T) {
	lex := testLexicon()

	if w, ok := FindExactWord(lex, []string{"C", "A", "T"}); !ok || w != "CAT" {
		t.Fatalf("FindExactWord(CAT) = %q, %v", w, ok)
	}
	if w, ok := FindExactWord(lex, []string{"C", "A", "T", "Z"}); ok {
		t.Fatalf("expected no word, got %q", w)
	}
	if _, ok := FindExactWord(lex, nil); ok {
		t.Fatal("expected no word for empty pool")
	}
}

func TestFindExactWordFirstInLoadOrder(t *testing.T) {
	lex := testLexicon()

	// car is loaded before arc.
	if w, _ := FindExactWord(lex, []string{"R", "A", "C"}); w != "CAR" {
		t.Fatalf("got %q, want CAR", w)
	}
	// stop is loaded before pots and tops.
	if w, _ := FindExactWord(lex, []string{"T", "O", "P", "S"}); w != "STOP" {
		t.Fatalf("got %q, want STOP", w)
	}
}

func TestFindExactWordMatchesLinearScan(t *testing.T) {
	lex := testLexicon()
	pools := [][]string{
		{"C", "A", "T"}, {"S", "P", "O", "T"}, {"A", "R", "C"}, {"Z"}, {"S", "T", "A", "C"}, {"D", "O", "O"},
	}
	for _, pool := range pools {
		var linear string
		for _, w := range lex.Words() {
			if IsExactWord(lex, w, pool) {
				linear = w
				break
			}
		}
		got, ok := FindExactWord(lex, pool)
		if ok != (linear != "") {
			t.Fatalf("pool %v: found=%v, linear=%q", pool, ok, linear)
		}
		if ok && got != strings.ToUpper(linear) {
			t.Fatalf("pool %v: got %q, linear %q", pool, got, linear)
		}
	}
}
