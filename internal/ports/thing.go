package ports

import (
	"context"

	"github.com/bft-labs/docship/internal/domain"
)

// ThingService resolves things by id. It is assumed to be slow.
type ThingService interface {
	// Read looks up id. found reports whether the thing exists.
	// A non-nil error is an abnormal condition (e.g., invalid id or
	// transport failure) and is distinct from not found.
	Read(ctx context.Context, id string) (thing domain.Thing, found bool, err error)
}

// ThingStore holds resolved things in memory. Implementations must be safe
// for concurrent use.
type ThingStore interface {
	Get(id string) (domain.Thing, bool)
	Set(id string, thing domain.Thing)
	Len() int
}
