// Package codec recognizes document envelopes in JSON and TOML.
//
// A JSON envelope carries base64 content:
//
//	{"format": "4.0", "created": "2024-05-01T10:00:00Z", "content": "aGVsbG8="}
//
// A TOML envelope carries text content:
//
//	format = "4.0"
//	created = 2024-05-01T10:00:00Z
//	content = "hello"
package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/docship/internal/domain"
)

var (
	errUnsupported    = errors.New("unsupported envelope")
	errMissingFormat  = errors.New("missing format")
	errMissingCreated = errors.New("missing created")
)

type jsonEnvelope struct {
	Format  string    `json:"format"`
	Created time.Time `json:"created"`
	Content []byte    `json:"content"`
}

type tomlEnvelope struct {
	Format  string    `toml:"format"`
	Created time.Time `toml:"created"`
	Content string    `toml:"content"`
}

// EnvelopeRecognizer implements ports.Recognizer for JSON and TOML envelopes.
// The envelope kind is chosen by file extension; files without a known
// extension are treated as JSON when they look like a JSON object.
type EnvelopeRecognizer struct{}

// NewEnvelopeRecognizer creates a new EnvelopeRecognizer.
func NewEnvelopeRecognizer() *EnvelopeRecognizer {
	return &EnvelopeRecognizer{}
}

// Recognize parses file as an envelope.
func (r *EnvelopeRecognizer) Recognize(ctx context.Context, file domain.File) (domain.Document, error) {
	var (
		doc domain.Document
		err error
	)

	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".json":
		doc, err = decodeJSON(file.Content)
	case ".toml":
		doc, err = decodeTOML(file.Content)
	default:
		if !bytes.HasPrefix(bytes.TrimSpace(file.Content), []byte("{")) {
			return domain.Document{}, fmt.Errorf("%s: %w", file.Name, errUnsupported)
		}
		doc, err = decodeJSON(file.Content)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("%s: %w", file.Name, err)
	}

	if doc.Format == "" {
		return domain.Document{}, fmt.Errorf("%s: %w", file.Name, errMissingFormat)
	}
	if doc.Created.IsZero() {
		return domain.Document{}, fmt.Errorf("%s: %w", file.Name, errMissingCreated)
	}

	doc.Name = file.Name
	return doc, nil
}

func decodeJSON(b []byte) (domain.Document, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return domain.Document{}, fmt.Errorf("decode json: %w", err)
	}
	return domain.Document{Content: env.Content, Created: env.Created, Format: env.Format}, nil
}

func decodeTOML(b []byte) (domain.Document, error) {
	var env tomlEnvelope
	if err := toml.Unmarshal(b, &env); err != nil {
		return domain.Document{}, fmt.Errorf("decode toml: %w", err)
	}
	return domain.Document{Content: []byte(env.Content), Created: env.Created, Format: env.Format}, nil
}
