package docship

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/docship/internal/adapters/codec"
	"github.com/bft-labs/docship/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/docship/internal/adapters/http"
	"github.com/bft-labs/docship/internal/adapters/memory"
	"github.com/bft-labs/docship/internal/adapters/signing"
	"github.com/bft-labs/docship/internal/app"
	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
	"github.com/bft-labs/docship/pkg/log"
)

// Config holds the settings used by New to wire the bundled adapters.
type Config struct {
	// InboxDir is the directory files are read from.
	InboxDir string

	// OutboxDir, when set, receives signed files instead of the service.
	OutboxDir string

	// ServiceURL is the base URL of the ingest service.
	ServiceURL string

	// AuthKey is sent as a bearer token.
	AuthKey string

	// CertFile and KeyFile hold the PEM signing credential.
	CertFile string
	KeyFile  string

	AcceptedFormats []string
	MaxAgeMonths    int
	Workers         int

	// HTTPTimeout bounds each request made with the default client.
	HTTPTimeout time.Duration

	// SendRate caps uploads per second. Zero means no limit.
	SendRate float64

	// ThingsDir, when set, resolves things from <dir>/<id>.toml.
	ThingsDir string

	// ThingsURL is the thing service base URL. Defaults to ServiceURL.
	ThingsURL string

	// CacheTTL expires cached things. Zero keeps them forever.
	CacheTTL time.Duration

	// Debounce is the quiet period Watch waits for after inbox changes.
	Debounce time.Duration
}

// Shipper sends the inbox through a Pipeline and serves things through a ThingCache.
type Shipper struct {
	config   Config
	source   *fs.InboxSource
	pipeline *app.Pipeline
	cache    *app.ThingCache
	cred     domain.Credential
	logger   ports.Logger
}

// New wires a Shipper from cfg. The credential is loaded from CertFile and
// KeyFile unless WithCredential is given.
func New(cfg Config, opts ...Option) (*Shipper, error) {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	o := defaultOptions(&http.Client{Timeout: timeout})
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrDiscard(o.logger)

	var cred domain.Credential
	switch {
	case o.credential != nil:
		cred = *o.credential
	case cfg.CertFile != "":
		loaded, err := signing.LoadCredential(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load credential: %w", err)
		}
		cred = loaded
	}

	endpoint := httpAdapter.Endpoint{
		ServiceURL: cfg.ServiceURL,
		AuthKey:    cfg.AuthKey,
		Hostname:   hostname(),
	}

	sender := o.sender
	if sender == nil {
		if cfg.OutboxDir != "" {
			sender = fs.NewOutboxSender(cfg.OutboxDir)
		} else {
			sender = httpAdapter.NewSender(o.httpClient, endpoint, cfg.SendRate, logger)
		}
	}

	things := o.things
	if things == nil {
		if cfg.ThingsDir != "" {
			things = fs.NewThingDirectory(cfg.ThingsDir)
		} else {
			thingsEndpoint := endpoint
			if cfg.ThingsURL != "" {
				thingsEndpoint.ServiceURL = cfg.ThingsURL
			}
			things = httpAdapter.NewThingService(o.httpClient, thingsEndpoint)
		}
	}

	store := o.store
	if store == nil {
		if cfg.CacheTTL > 0 {
			store = memory.NewExpiringStore(cfg.CacheTTL, cfg.CacheTTL)
		} else {
			store = memory.NewMapStore(0)
		}
	}

	pipeline := app.NewPipeline(app.PipelineConfig{
		AcceptedFormats: cfg.AcceptedFormats,
		MaxAgeMonths:    cfg.MaxAgeMonths,
		Workers:         cfg.Workers,
		Now:             o.now,
	}, codec.NewEnvelopeRecognizer(), signing.NewCertSigner(), sender, logger)

	return &Shipper{
		config:   cfg,
		source:   fs.NewInboxSource(cfg.InboxDir),
		pipeline: pipeline,
		cache:    app.NewThingCache(things, store, logger),
		cred:     cred,
		logger:   logger,
	}, nil
}

// SendOnce runs every file currently in the inbox through the pipeline.
func (s *Shipper) SendOnce(ctx context.Context) (Result, error) {
	if err := s.ready(); err != nil {
		return Result{}, err
	}
	files, err := s.source.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list inbox: %w", err)
	}
	return s.pipeline.ProcessBatch(ctx, files, s.cred), nil
}

// Watch sends the inbox and then every new or rewritten file until ctx is
// cancelled. Each batch result is passed to report when it is not nil.
func (s *Shipper) Watch(ctx context.Context, report func(Result)) error {
	if err := s.ready(); err != nil {
		return err
	}
	handler := func(ctx context.Context, files []domain.File) {
		result := s.pipeline.ProcessBatch(ctx, files, s.cred)
		if report != nil {
			report(result)
		}
	}
	w := app.NewInboxWatcher(s.source.Dir(), s.source, s.config.Debounce, handler, s.logger)
	return w.Run(ctx)
}

// Thing resolves id through the cache.
func (s *Shipper) Thing(ctx context.Context, id string) (Thing, bool, error) {
	return s.cache.Get(ctx, id)
}

// CachedThings returns the number of things held by the cache.
func (s *Shipper) CachedThings() int {
	return s.cache.Len()
}

// AcceptedFormats returns the formats the pipeline accepts.
func (s *Shipper) AcceptedFormats() []string {
	return s.pipeline.AcceptedFormats()
}

func (s *Shipper) ready() error {
	if s.config.InboxDir == "" {
		return fmt.Errorf("%w: inbox directory is required", domain.ErrInvalidConfig)
	}
	if s.config.OutboxDir != "" && filepath.Clean(s.config.OutboxDir) == filepath.Clean(s.config.InboxDir) {
		return fmt.Errorf("%w: outbox directory must differ from inbox directory", domain.ErrInvalidConfig)
	}
	if s.cred.Empty() {
		return domain.ErrMissingCredential
	}
	return nil
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
