package store

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
	"github.com/robalobadob/wordduel/apps/go-server/internal/words"
)

func newGame(id string) *game.Game {
	return game.New(id, words.New([]string{"cat"}), rand.New(rand.NewSource(1)))
}

func TestMemorySaveGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	g := newGame("abc")
	if err := st.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != g {
		t.Fatal("Get returned a different game")
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d", st.Len())
	}

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g := newGame(NewID())
			_ = st.Save(ctx, g)
			_, _ = st.Get(ctx, g.ID())
		}()
	}
	wg.Wait()
	if st.Len() != 32 {
		t.Fatalf("Len = %d, want 32", st.Len())
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewID %q is not a uuid: %v", id, err)
	}
	if id == NewID() {
		t.Fatal("NewID returned the same id twice")
	}
}
