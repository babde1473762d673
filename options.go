package docship

import (
	"net/http"
	"time"
)

// Option configures optional behavior of a Shipper.
type Option func(*options)

type options struct {
	httpClient HTTPClient
	logger     Logger
	credential *Credential
	sender     Sender
	things     ThingService
	store      ThingStore
	now        func() time.Time
}

func defaultOptions(client *http.Client) options {
	return options{
		httpClient: client,
		now:        time.Now,
	}
}

// WithHTTPClient sets a custom HTTP client for the service.
// If not provided, a client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCredential uses cred instead of loading CertFile and KeyFile.
func WithCredential(cred Credential) Option {
	return func(o *options) {
		o.credential = &cred
	}
}

// WithSender replaces the configured outbox or HTTP sender.
func WithSender(sender Sender) Option {
	return func(o *options) {
		o.sender = sender
	}
}

// WithThingService replaces the configured thing directory or HTTP service.
func WithThingService(service ThingService) Option {
	return func(o *options) {
		o.things = service
	}
}

// WithThingStore sets the store behind the thing cache.
func WithThingStore(store ThingStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithClock sets the time source used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
