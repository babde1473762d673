package app

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/bft-labs/docship/internal/domain"
)

// dirSource lists regular files of a directory.
type dirSource string

func (d dirSource) List(ctx context.Context) ([]domain.File, error) {
	entries, err := os.ReadDir(string(d))
	if err != nil {
		return nil, err
	}
	var files []domain.File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(string(d), e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, domain.File{Name: e.Name(), Content: b})
	}
	return files, nil
}

func waitBatch(t *testing.T, ch <-chan []string) []string {
	t.Helper()
	select {
	case got := <-ch:
		sort.Strings(got)
		return got
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for inbox batch")
		return nil
	}
}

func TestInboxWatcher_HandsOverNewFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}

	batches := make(chan []string, 10)
	handler := func(ctx context.Context, files []domain.File) {
		batches <- names(files)
	}
	w := NewInboxWatcher(dir, dirSource(dir), 50*time.Millisecond, handler, &mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if got := waitBatch(t, batches); !equalStrings(got, []string{"a.json"}) {
		t.Fatalf("initial batch = %v, want [a.json]", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "b.json"), []byte("b"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := waitBatch(t, batches); !equalStrings(got, []string{"b.json"}) {
		t.Fatalf("second batch = %v, want [b.json]", got)
	}

	// Rewriting a handled file makes it eligible again.
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte("a2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := waitBatch(t, batches); !equalStrings(got, []string{"a.json"}) {
		t.Fatalf("third batch = %v, want [a.json]", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestInboxWatcher_RecreatedFileIsHandedOverAgain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	if err := os.WriteFile(path, []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}

	batches := make(chan []string, 10)
	handler := func(ctx context.Context, files []domain.File) {
		batches <- names(files)
	}
	w := NewInboxWatcher(dir, dirSource(dir), 50*time.Millisecond, handler, &mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if got := waitBatch(t, batches); !equalStrings(got, []string{"a.json"}) {
		t.Fatalf("initial batch = %v, want [a.json]", got)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	// Let the Remove event be tracked before the file comes back.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("a again"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := waitBatch(t, batches); !equalStrings(got, []string{"a.json"}) {
		t.Fatalf("batch after re-create = %v, want [a.json]", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestInboxWatcher_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	w := NewInboxWatcher(dir, dirSource(dir), 0, func(context.Context, []domain.File) {}, nil)

	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() error = nil, want error for missing directory")
	}
}
