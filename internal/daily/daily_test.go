package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/wordduel/apps/go-server/assets"
	"github.com/robalobadob/wordduel/apps/go-server/internal/db"
)

func TestDateKeyUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2026, 10, 19, 5, 0, 0, 0, loc) // 2026-10-18 19:00 UTC
	if got := DateKey(ts); got != "2026-10-18" {
		t.Fatalf("DateKey = %q", got)
	}
}

func TestWordIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	later := day.Add(23 * time.Hour)

	a := WordIndex(day, "salt", 5)
	if b := WordIndex(later, "salt", 5); a != b {
		t.Fatalf("same date gave %d and %d", a, b)
	}
	if a < 0 || a >= 5 {
		t.Fatalf("index %d out of range", a)
	}
	if WordIndex(day, "salt", 0) != 0 {
		t.Fatal("n=0 should yield 0")
	}
}

func TestOpening(t *testing.T) {
	openers := []string{"CAT", "DOG", "SUN"}
	day := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	i, w := Opening(day, "x", openers)
	if openers[i] != w {
		t.Fatalf("Opening returned index %d with word %q", i, w)
	}
	if _, w := Opening(day, "x", nil); w != "" {
		t.Fatalf("expected empty opener, got %q", w)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.OpenMigrated(filepath.Join(t.TempDir(), "app.db"), assets.Migrations())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()
	s := NewStore(sqlDB)

	played, err := s.AlreadyPlayed(ctx, "u1", "2026-10-19")
	if err != nil || played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}

	results := []Result{
		{UserID: "u1", Date: "2026-10-19", PoolSize: 4, Won: true, ElapsedMs: 900},
		{UserID: "u2", Date: "2026-10-19", PoolSize: 6, Won: true, ElapsedMs: 5000},
		{UserID: "u3", Date: "2026-10-19", PoolSize: 8, Won: false, ElapsedMs: 100},
		{UserID: "u4", Date: "2026-10-19", PoolSize: 4, Won: true, ElapsedMs: 300},
		{UserID: "u1", Date: "2026-10-19", PoolSize: 9, Won: true, ElapsedMs: 1}, // ignored duplicate
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult: %v", err)
		}
	}

	played, err = s.AlreadyPlayed(ctx, "u1", "2026-10-19")
	if err != nil || !played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}

	top, err := s.Leaderboard(ctx, "2026-10-19", 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	want := []string{"u2", "u4", "u1"}
	if len(top) != len(want) {
		t.Fatalf("leaderboard = %+v", top)
	}
	for i, id := range want {
		if top[i].UserID != id {
			t.Fatalf("row %d = %s, want %s (%+v)", i, top[i].UserID, id, top)
		}
	}
}

func TestStoreReassign(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.OpenMigrated(filepath.Join(t.TempDir(), "app.db"), assets.Migrations())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()
	s := NewStore(sqlDB)

	for _, r := range []Result{
		{UserID: "guest", Date: "2026-10-18", PoolSize: 5, Won: true},
		{UserID: "guest", Date: "2026-10-19", PoolSize: 7, Won: true},
		{UserID: "user", Date: "2026-10-19", PoolSize: 3, Won: true},
	} {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult: %v", err)
		}
	}

	moved, err := s.Reassign(ctx, "guest", "user")
	if err != nil {
		t.Fatalf("Reassign: %v", err)
	}
	if moved != 1 {
		t.Fatalf("moved = %d, want 1", moved)
	}

	for _, date := range []string{"2026-10-18", "2026-10-19"} {
		if played, _ := s.AlreadyPlayed(ctx, "user", date); !played {
			t.Fatalf("user has no result for %s", date)
		}
		if played, _ := s.AlreadyPlayed(ctx, "guest", date); played {
			t.Fatalf("guest still has a result for %s", date)
		}
	}
	top, err := s.Leaderboard(ctx, "2026-10-19", 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(top) != 1 || top[0].UserID != "user" || top[0].PoolSize != 3 {
		t.Fatalf("leaderboard = %+v", top)
	}
}
