package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bft-labs/docship/internal/domain"
)

// InboxSource implements ports.FileSource over the regular files of a directory.
// Hidden files, temp files and subdirectories are ignored.
type InboxSource struct {
	dir string
}

// NewInboxSource creates a new InboxSource for the given directory.
func NewInboxSource(dir string) *InboxSource {
	return &InboxSource{dir: dir}
}

// List reads every eligible file, sorted by name.
func (s *InboxSource) List(ctx context.Context) ([]domain.File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || skipName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make([]domain.File, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				// Removed between ReadDir and ReadFile.
				continue
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		files = append(files, domain.File{Name: name, Content: data})
	}

	return files, nil
}

// Dir returns the inbox directory.
func (s *InboxSource) Dir() string {
	return s.dir
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, tmpSuffix)
}
