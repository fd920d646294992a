package corpus

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestBuiltinQuotesHaveText(t *testing.T) {
	quotes := Builtin()
	if len(quotes) == 0 {
		t.Fatalf("expected builtin quotes")
	}
	for i, q := range quotes {
		if strings.TrimSpace(q.Text) == "" {
			t.Fatalf("quote %d has empty text", i)
		}
	}
}

func TestParseRejectsEmptyText(t *testing.T) {
	_, err := Parse([]byte("- text: ok\n  author: a\n- text: \"  \"\n  author: b\n"))
	if err == nil || !strings.Contains(err.Error(), "entry 1") {
		t.Fatalf("expected error naming entry 1, got %v", err)
	}
}

func TestParseRejectsEmptyList(t *testing.T) {
	if _, err := Parse([]byte("[]")); err == nil {
		t.Fatalf("expected error for empty corpus")
	}
}

func TestLoadTrimsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	data := "- text: \" cat \"\n  author: \" Anon \"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	quotes, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Text != "cat" || quotes[0].Author != "Anon" {
		t.Fatalf("unexpected quotes: %+v", quotes)
	}
}

func TestParseCollapsesLineBreaksAndTabs(t *testing.T) {
	data := "- text: |\n    ab\n    c\n  author: \"Anon\\tWriter\"\n- text: \"one\\ttwo  three\"\n"
	quotes, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if quotes[0].Text != "ab c" {
		t.Fatalf("expected block scalar joined with spaces, got %q", quotes[0].Text)
	}
	if quotes[0].Author != "Anon Writer" {
		t.Fatalf("unexpected author %q", quotes[0].Author)
	}
	if quotes[1].Text != "one two three" {
		t.Fatalf("expected tab collapsed, got %q", quotes[1].Text)
	}
}

func TestParseRejectsUnprintable(t *testing.T) {
	_, err := Parse([]byte("- text: ok\n- text: \"bell\\a here\"\n"))
	if err == nil || !strings.Contains(err.Error(), "entry 1") {
		t.Fatalf("expected error naming entry 1, got %v", err)
	}
}

func TestPickerFallsBackToBuiltin(t *testing.T) {
	p := NewPickerWithSource(nil, rand.NewSource(1))
	if p.Len() != len(Builtin()) {
		t.Fatalf("expected builtin corpus, got %d quotes", p.Len())
	}
}

func TestPickerUsesCorpus(t *testing.T) {
	p := NewPickerWithSource([]Quote{{Text: "only"}}, rand.NewSource(1))
	for i := 0; i < 5; i++ {
		if got := p.Pick().Text; got != "only" {
			t.Fatalf("unexpected pick %q", got)
		}
	}
	p.Set([]Quote{{Text: "other"}})
	if got := p.Pick().Text; got != "other" {
		t.Fatalf("expected swapped corpus, got %q", got)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "quotes.yaml")
	if err := os.WriteFile(path, []byte("- text: first\n"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []Quote, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(q []Quote) {
			select {
			case changes <- q:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	var got []Quote
	for got == nil {
		select {
		case q := <-changes:
			got = q
		case <-ticker.C:
			// The watcher may not be registered on the first write.
			if err := os.WriteFile(path, []byte("- text: second\n"), 0o644); err != nil {
				t.Fatalf("rewrite corpus: %v", err)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for reload")
		}
	}
	if got[0].Text != "second" {
		t.Fatalf("unexpected reloaded quotes: %+v", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}
