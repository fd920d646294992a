package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keyzen/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "keyzen.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return s
}

func TestBlobRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	if _, ok, err := s.GetBlob(ctx, "report_history"); err != nil || ok {
		t.Fatalf("expected missing blob, got ok=%v err=%v", ok, err)
	}
	if err := s.PutBlob(ctx, "report_history", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.PutBlob(ctx, "report_history", []byte(`{"version":1,"reports":[]}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := s.GetBlob(ctx, "report_history")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"version":1,"reports":[]}` {
		t.Fatalf("unexpected blob %q", got)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyzen.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func attemptAt(end time.Time, wpm int) model.Attempt {
	return model.Attempt{
		SessionID:  "run-1",
		StartedAt:  end.Add(-30 * time.Second),
		EndedAt:    end,
		Author:     "Anon",
		TextLen:    40,
		Keystrokes: 44,
		Errors:     4,
		MaxCombo:   20,
		WPM:        wpm,
		Accuracy:   91,
		DurationMs: 30000,
	}
}

func TestAttemptsInsertAndList(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var ids []int64
	for i := 0; i < 4; i++ {
		id, err := s.InsertAttempt(ctx, attemptAt(base.Add(time.Duration(i)*time.Hour), 40+i), nil)
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	all, err := s.ListAttempts(ctx, model.AttemptFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 attempts, got %d", len(all))
	}
	if all[0].ID != ids[0] || all[3].WPM != 43 {
		t.Fatalf("unexpected order: %+v", all)
	}
	if !all[0].EndedAt.Equal(base) || all[0].Author != "Anon" || all[0].SessionID != "run-1" {
		t.Fatalf("fields not restored: %+v", all[0])
	}

	last, err := s.ListAttempts(ctx, model.AttemptFilter{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].WPM != 42 || last[1].WPM != 43 {
		t.Fatalf("unexpected last attempts: %+v", last)
	}

	since := base.Add(90 * time.Minute)
	recent, err := s.ListAttempts(ctx, model.AttemptFilter{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 attempts since %v, got %d", since, len(recent))
	}
}

func TestTopMisses(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := s.InsertAttempt(ctx, attemptAt(now, 50), []model.CharMiss{{Char: "e", Misses: 2}, {Char: "t", Misses: 1}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := s.InsertAttempt(ctx, attemptAt(now.Add(time.Minute), 55), []model.CharMiss{{Char: "t", Misses: 3}, {Char: "a", Misses: 1}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	top, err := s.TopMisses(ctx, []int64{first, second}, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []model.CharMiss{{Char: "t", Misses: 4}, {Char: "e", Misses: 2}}
	if len(top) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), top)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("row %d: want %+v, got %+v", i, want[i], top[i])
		}
	}

	only, err := s.TopMisses(ctx, []int64{first}, 0)
	if err != nil {
		t.Fatalf("top first: %v", err)
	}
	if len(only) != 2 || only[0].Char != "e" {
		t.Fatalf("unexpected misses for first attempt: %+v", only)
	}

	none, err := s.TopMisses(ctx, nil, 5)
	if err != nil || none != nil {
		t.Fatalf("expected nil for no ids, got %+v err=%v", none, err)
	}
}

func TestInsertAttemptRejectsDuplicateMiss(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	_, err := s.InsertAttempt(ctx, attemptAt(time.Now(), 10), []model.CharMiss{{Char: "x", Misses: 1}, {Char: "x", Misses: 2}})
	if err == nil {
		t.Fatal("expected primary key violation")
	}
	attempts, err := s.ListAttempts(ctx, model.AttemptFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("expected rollback, found %d attempts", len(attempts))
	}
}
