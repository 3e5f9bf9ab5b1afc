package history_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"werscore/internal/history"
	"werscore/internal/scoring"
	"werscore/internal/testsupport"
)

func TestRecordAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	run := &history.Run{
		Label:          "nightly",
		ReferencePath:  "/tmp/ref.txt",
		HypothesisPath: "/tmp/hyp.txt",
		WER:            scoring.Score{Distance: 1, Denominator: 3},
		CER:            scoring.Score{Distance: 2, Denominator: 11},
		RemoveAccents:  true,
	}
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if run.ID == "" || run.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp: %+v", run)
	}
	if run.Kind != history.KindEval || run.Pairs != 1 {
		t.Fatalf("expected eval defaults: %+v", run)
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Label != "nightly" || got.HypothesisPath != "/tmp/hyp.txt" || !got.RemoveAccents || got.RemovePunctuation {
		t.Fatalf("round trip = %+v", got)
	}
	if got.WER.Distance != 1 || got.WER.Denominator != 3 || got.CER.Denominator != 11 {
		t.Fatalf("scores = %+v / %+v", got.WER, got.CER)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, run.CreatedAt)
	}

	byPrefix, err := store.Get(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("Get by prefix: %v", err)
	}
	if byPrefix.ID != run.ID {
		t.Fatalf("prefix lookup returned %s", byPrefix.ID)
	}
}

func TestGetNotFoundAndAmbiguous(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	for _, id := range []string{"abc-1", "abc-2"} {
		if err := store.Record(ctx, &history.Run{ID: id}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if _, err := store.Get(ctx, "abc"); !errors.Is(err, history.ErrAmbiguousID) {
		t.Fatalf("error = %v, want ErrAmbiguousID", err)
	}
	if got, err := store.Get(ctx, "abc-2"); err != nil || got.ID != "abc-2" {
		t.Fatalf("exact lookup = %+v, %v", got, err)
	}
	if _, err := store.Get(ctx, "ab%"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("LIKE wildcards must be literal, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, label := range []string{"first", "second", "third"} {
		run := &history.Run{Label: label, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 || runs[0].Label != "third" || runs[2].Label != "first" {
		t.Fatalf("List order = %+v", runs)
	}
	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited = %d", len(limited))
	}
	if n, err := store.Count(ctx); err != nil || n != 3 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}

func TestPrune(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	old := &history.Run{Label: "old", CreatedAt: now.Add(-100 * 24 * time.Hour)}
	// Sub-second timestamps must compare correctly against whole seconds.
	recent := &history.Run{Label: "recent", CreatedAt: now.Add(500 * time.Millisecond)}
	for _, run := range []*history.Run{old, recent} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	removed, err := store.Prune(ctx, now)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].Label != "recent" {
		t.Fatalf("remaining = %+v", runs)
	}
}

func TestPruneRespectsLock(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	held := flock.New(store.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock = %v, %v", ok, err)
	}
	defer held.Unlock()

	if _, err := store.Prune(context.Background(), time.Now()); !errors.Is(err, history.ErrPruneInProgress) {
		t.Fatalf("error = %v, want ErrPruneInProgress", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.History.Path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	db.Close()

	if _, err := history.Open(cfg); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}
}
