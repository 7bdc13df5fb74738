package words

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewNormalizesAndDeduplicates(t *testing.T) {
	d := New([]string{"  Cat ", "# comment", "", "dog", "CAT", "it's", "sun"})

	want := []string{"cat", "dog", "sun"}
	if got := d.Words(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
	if !d.Contains("CAT") || !d.Contains("cat") {
		t.Fatal("expected case-insensitive membership for cat")
	}
	if d.Contains("its") {
		t.Fatal("punctuated entry should have been dropped")
	}
}

func TestAnagramsKeepsLoadOrder(t *testing.T) {
	d := New([]string{"stop", "pots", "cat", "tops", "spot"})

	got := d.Anagrams([]string{"O", "P", "S", "T"})
	want := []string{"stop", "pots", "tops", "spot"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Anagrams = %v, want %v", got, want)
	}
	if got := d.Anagrams([]string{"Z", "Q"}); len(got) != 0 {
		t.Fatalf("expected no anagrams, got %v", got)
	}
}

func TestSignature(t *testing.T) {
	tests := map[string]string{
		"cat":  "act",
		"TAC":  "act",
		"stop": "opst",
		"":     "",
	}
	for in, want := range tests {
		if got := Signature(in); got != want {
			t.Errorf("Signature(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInitEmbedded(t *testing.T) {
	d, err := Init("")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for _, w := range []string{"cat", "dog", "sun", "car", "bat"} {
		if !d.Contains(w) {
			t.Errorf("embedded dictionary missing opening word %q", w)
		}
	}
	if d.Contains("act") {
		t.Error("embedded dictionary should not contain act")
	}
}

func TestInitFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("alpha\nbeta\n\n# skip\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Init(path)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}
}

func TestInitEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(path); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestInitMissingFile(t *testing.T) {
	if _, err := Init(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
