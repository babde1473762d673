package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// Default pipeline configuration values.
const (
	DefaultMaxAgeMonths = 1
	DefaultWorkers      = 1
)

// DefaultAcceptedFormats returns the document formats accepted when none are configured.
func DefaultAcceptedFormats() []string {
	return []string{"4.0", "3.1"}
}

// PipelineConfig contains configuration for the send pipeline.
type PipelineConfig struct {
	// AcceptedFormats is the allow-list of document format versions
	AcceptedFormats []string

	// MaxAgeMonths is the freshness window in calendar months
	MaxAgeMonths int

	// Workers bounds how many files are processed concurrently
	Workers int

	// Now returns the current wall-clock time
	Now func() time.Time
}

// Pipeline recognizes, validates, signs and sends files.
// Files are independent: the outcome of one never affects another.
type Pipeline struct {
	config     PipelineConfig
	formats    map[string]struct{}
	recognizer ports.Recognizer
	signer     ports.Signer
	sender     ports.Sender
	logger     ports.Logger
}

// NewPipeline creates a pipeline with the given collaborators.
// Zero config values are replaced with defaults.
func NewPipeline(
	config PipelineConfig,
	recognizer ports.Recognizer,
	signer ports.Signer,
	sender ports.Sender,
	logger ports.Logger,
) *Pipeline {
	if len(config.AcceptedFormats) == 0 {
		config.AcceptedFormats = DefaultAcceptedFormats()
	}
	if config.MaxAgeMonths <= 0 {
		config.MaxAgeMonths = DefaultMaxAgeMonths
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	formats := make(map[string]struct{}, len(config.AcceptedFormats))
	for _, f := range config.AcceptedFormats {
		formats[f] = struct{}{}
	}

	p := &Pipeline{
		config:     config,
		formats:    formats,
		recognizer: recognizer,
		signer:     signer,
		sender:     sender,
		logger:     orDiscard(logger),
	}
	p.logger.Debug("pipeline configured",
		ports.Strings("accepted_formats", config.AcceptedFormats),
		ports.Int("max_age_months", config.MaxAgeMonths),
		ports.Int("workers", config.Workers),
	)
	return p
}

// ProcessBatch runs every file through the pipeline and reports the ones
// that were skipped. Result order follows input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, files []domain.File, cred domain.Credential) domain.Result {
	runID := uuid.NewString()
	start := time.Now()

	outcomes := make([]domain.Outcome, len(files))

	g := new(errgroup.Group)
	g.SetLimit(p.config.Workers)
	for i := range files {
		i := i
		g.Go(func() error {
			outcomes[i] = p.process(ctx, runID, files[i], cred)
			return nil
		})
	}
	_ = g.Wait()

	result := domain.NewResult(outcomes)

	p.logger.Info("batch processed",
		ports.String("run_id", runID),
		ports.Time("started", start),
		ports.Int("files", len(files)),
		ports.Int("sent", result.SentCount()),
		ports.Int("skipped", len(result.Skipped)),
		ports.Duration("duration", time.Since(start)),
	)

	return result
}

// ProcessOne runs a single file through the pipeline.
func (p *Pipeline) ProcessOne(ctx context.Context, file domain.File, cred domain.Credential) domain.Outcome {
	return p.process(ctx, uuid.NewString(), file, cred)
}

func (p *Pipeline) process(ctx context.Context, runID string, file domain.File, cred domain.Credential) domain.Outcome {
	outcome := p.run(ctx, runID, file, cred)

	if outcome.Sent() {
		p.logger.Debug("file sent",
			ports.String("run_id", runID),
			ports.String("file", file.Name),
		)
	} else {
		p.logger.Debug("file skipped",
			ports.String("run_id", runID),
			ports.String("file", file.Name),
			ports.Stringer("stage", outcome.Stage),
			ports.Err(outcome.Err),
		)
	}

	return outcome
}

// run executes the stages in order and stops at the first failure.
func (p *Pipeline) run(ctx context.Context, runID string, file domain.File, cred domain.Credential) domain.Outcome {
	skip := func(stage domain.Stage, err error) domain.Outcome {
		return domain.Outcome{File: file, Stage: stage, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return skip(domain.StageRecognize, err)
	}

	doc, err := p.recognizer.Recognize(ctx, file)
	if err != nil {
		return skip(domain.StageRecognize, fmt.Errorf("%w: %w", domain.ErrNotRecognized, err))
	}

	if err := p.checkFormat(doc); err != nil {
		return skip(domain.StageFormat, err)
	}

	if err := checkFreshness(doc.Created, p.config.Now(), p.config.MaxAgeMonths); err != nil {
		return skip(domain.StageFreshness, err)
	}

	signed, err := p.signer.Sign(ctx, doc.Content, cred)
	if err != nil {
		return skip(domain.StageSign, fmt.Errorf("%w: %w", domain.ErrSignFailed, err))
	}

	metadata := ports.SendMetadata{
		RunID:    runID,
		FileName: file.Name,
		Format:   doc.Format,
	}
	if err := p.sender.Send(ctx, signed, metadata); err != nil {
		return skip(domain.StageSend, fmt.Errorf("%w: %w", domain.ErrSendFailed, err))
	}

	return domain.Outcome{File: file, Stage: domain.StageDone}
}

func (p *Pipeline) checkFormat(doc domain.Document) error {
	if _, ok := p.formats[doc.Format]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrFormatRejected, doc.Format)
	}
	return nil
}

// AcceptedFormats returns the configured format allow-list.
func (p *Pipeline) AcceptedFormats() []string {
	return append([]string(nil), p.config.AcceptedFormats...)
}
