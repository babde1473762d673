package ports

import (
	"context"

	"github.com/bft-labs/docship/internal/domain"
)

// FileSource lists the files waiting to be sent.
type FileSource interface {
	List(ctx context.Context) ([]domain.File, error)
}
