package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/docship/internal/domain"
)

const thingExt = ".toml"

// thingFile is the on-disk form of a thing.
type thingFile struct {
	Name string `toml:"name"`
}

// ThingDirectory implements ports.ThingService over <dir>/<id>.toml files.
type ThingDirectory struct {
	dir string
}

// NewThingDirectory creates a new ThingDirectory for the given directory.
func NewThingDirectory(dir string) *ThingDirectory {
	return &ThingDirectory{dir: dir}
}

// Read loads the thing with the given id.
// A missing file is reported as not found; an empty id or one containing
// path elements returns ErrInvalidThingID.
func (d *ThingDirectory) Read(ctx context.Context, id string) (domain.Thing, bool, error) {
	if err := validateID(id); err != nil {
		return domain.Thing{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Thing{}, false, err
	}

	b, err := os.ReadFile(filepath.Join(d.dir, id+thingExt))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Thing{}, false, nil
		}
		return domain.Thing{}, false, fmt.Errorf("read thing %s: %w", id, err)
	}

	var tf thingFile
	if err := toml.Unmarshal(b, &tf); err != nil {
		return domain.Thing{}, false, fmt.Errorf("parse thing %s: %w", id, err)
	}

	name := tf.Name
	if name == "" {
		name = id
	}
	return domain.Thing{ID: id, Name: name}, true, nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidThingID)
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", domain.ErrInvalidThingID, id)
	}
	return nil
}
