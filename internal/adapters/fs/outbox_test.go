package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/docship/internal/ports"
)

func TestOutboxSender_Send(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewOutboxSender(dir)

	err := s.Send(context.Background(), []byte("signed"), ports.SendMetadata{FileName: "doc.json"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got, err := os.ReadFile(s.Path("doc.json"))
	if err != nil {
		t.Fatalf("read outbox file: %v", err)
	}
	if string(got) != "signed" {
		t.Errorf("content = %q, want signed", got)
	}
	if _, err := os.Stat(s.Path("doc.json") + tmpSuffix); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestOutboxSender_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	s := NewOutboxSender(dir)

	if err := s.Send(context.Background(), []byte("x"), ports.SendMetadata{FileName: "../escape.json"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.json"+signedSuffix)); err != nil {
		t.Errorf("expected file inside outbox: %v", err)
	}
}

func TestOutboxSender_RejectsEmptyName(t *testing.T) {
	s := NewOutboxSender(t.TempDir())
	if err := s.Send(context.Background(), []byte("x"), ports.SendMetadata{}); err == nil {
		t.Error("Send() error = nil, want error for empty file name")
	}
}
