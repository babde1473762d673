package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

const (
	signedSuffix = ".signed"
	tmpSuffix    = ".tmp"
)

// OutboxSender implements ports.Sender by writing signed content to a directory.
// Each document lands in <dir>/<file name>.signed.
type OutboxSender struct {
	dir string
}

// NewOutboxSender creates a new OutboxSender for the given directory.
func NewOutboxSender(dir string) *OutboxSender {
	return &OutboxSender{dir: dir}
}

// Send writes content atomically (write to temp file, then rename).
func (s *OutboxSender) Send(ctx context.Context, content domain.SignedContent, metadata ports.SendMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filepath.Base(metadata.FileName)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return fmt.Errorf("invalid file name %q", metadata.FileName)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create outbox: %w", err)
	}

	path := s.Path(name)
	tmp := path + tmpSuffix

	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename outbox: %w", err)
	}
	return nil
}

// Path returns the outbox path for a file name.
func (s *OutboxSender) Path(name string) string {
	return filepath.Join(s.dir, name+signedSuffix)
}
