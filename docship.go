// Package docship signs and ships documents and resolves things through a
// read-through cache.
//
// The two core components can be used directly with your own collaborators:
//
//	p := docship.NewPipeline(docship.PipelineConfig{}, recognizer, signer, sender, nil)
//	result := p.ProcessBatch(ctx, files, cred)
//	for _, f := range result.Skipped {
//	    fmt.Println("skipped", f.Name)
//	}
//
//	cache := docship.NewThingCache(service, nil, nil)
//	thing, found, err := cache.Get(ctx, "TheDress")
//
// Or wired to the bundled adapters through New:
//
//	s, err := docship.New(docship.Config{
//	    InboxDir:   "/var/spool/docship",
//	    ServiceURL: "https://api.docship.io",
//	    CertFile:   "cert.pem",
//	    KeyFile:    "key.pem",
//	})
//	result, err := s.SendOnce(ctx)
package docship

import (
	"github.com/bft-labs/docship/internal/adapters/memory"
	"github.com/bft-labs/docship/internal/app"
	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
	"github.com/bft-labs/docship/pkg/log"
)

type (
	// File is a named blob submitted to the pipeline.
	File = domain.File

	// Document is the recognized form of a File.
	Document = domain.Document

	// SignedContent is the output of a Signer.
	SignedContent = domain.SignedContent

	// Credential is the certificate and key used for signing.
	Credential = domain.Credential

	// Thing is the value resolved by a ThingService.
	Thing = domain.Thing

	// Stage identifies where a file left the pipeline.
	Stage = domain.Stage

	// Outcome is the per-file pipeline result.
	Outcome = domain.Outcome

	// Result lists the outcomes and skipped files of a batch.
	Result = domain.Result

	// PipelineConfig configures a Pipeline.
	PipelineConfig = app.PipelineConfig

	// Pipeline recognizes, validates, signs and sends files.
	Pipeline = app.Pipeline

	// ThingCache is a read-through cache over a ThingService.
	ThingCache = app.ThingCache

	// Recognizer turns a File into a Document.
	Recognizer = ports.Recognizer

	// Signer signs document content.
	Signer = ports.Signer

	// Sender dispatches signed content.
	Sender = ports.Sender

	// SendMetadata accompanies signed content to a Sender.
	SendMetadata = ports.SendMetadata

	// ThingService looks up things by id.
	ThingService = ports.ThingService

	// ThingStore holds resolved things.
	ThingStore = ports.ThingStore

	// HTTPClient is satisfied by *http.Client.
	HTTPClient = ports.HTTPClient

	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger
)

// Pipeline stages.
const (
	StageRecognize = domain.StageRecognize
	StageFormat    = domain.StageFormat
	StageFreshness = domain.StageFreshness
	StageSign      = domain.StageSign
	StageSend      = domain.StageSend
	StageDone      = domain.StageDone
)

// Errors reported in outcomes and by the cache.
var (
	ErrNotRecognized     = domain.ErrNotRecognized
	ErrFormatRejected    = domain.ErrFormatRejected
	ErrStale             = domain.ErrStale
	ErrSignFailed        = domain.ErrSignFailed
	ErrSendFailed        = domain.ErrSendFailed
	ErrInvalidThingID    = domain.ErrInvalidThingID
	ErrMissingCredential = domain.ErrMissingCredential
	ErrInvalidConfig     = domain.ErrInvalidConfig
)

// NewPipeline creates a pipeline over the given collaborators.
// A nil logger discards output.
func NewPipeline(cfg PipelineConfig, recognizer Recognizer, signer Signer, sender Sender, logger Logger) *Pipeline {
	return app.NewPipeline(cfg, recognizer, signer, sender, logger)
}

// NewThingCache creates a read-through cache over service.
// A nil store keeps every resolved thing in memory for the cache's lifetime.
func NewThingCache(service ThingService, store ThingStore, logger Logger) *ThingCache {
	if store == nil {
		store = memory.NewMapStore(0)
	}
	return app.NewThingCache(service, store, logger)
}

// DefaultAcceptedFormats returns the formats accepted when none are configured.
func DefaultAcceptedFormats() []string {
	return app.DefaultAcceptedFormats()
}
