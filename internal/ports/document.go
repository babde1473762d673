package ports

import (
	"context"

	"github.com/bft-labs/docship/internal/domain"
)

// Recognizer interprets raw files as documents.
type Recognizer interface {
	// Recognize parses file into a Document.
	// Any error means the file is not recognized.
	Recognize(ctx context.Context, file domain.File) (domain.Document, error)
}

// Signer produces signed content for a document payload.
type Signer interface {
	// Sign signs content under cred. The content slice must not be retained.
	Sign(ctx context.Context, content []byte, cred domain.Credential) (domain.SignedContent, error)
}

// Sender dispatches signed content to its destination.
type Sender interface {
	// Send transmits signed content. Returns nil on success.
	// Implementations must not retry; the pipeline treats any error as final.
	Send(ctx context.Context, content domain.SignedContent, metadata SendMetadata) error
}

// SendMetadata provides context for a send operation.
type SendMetadata struct {
	// RunID identifies the batch run the document belongs to
	RunID string

	// FileName is the name of the originating file
	FileName string

	// Format is the document format version
	Format string
}
