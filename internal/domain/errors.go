package domain

import "errors"

// Domain errors represent error conditions in the docship domain.
// Stage failures wrap one of these so callers can check them with errors.Is.
var (
	// ErrNotRecognized is returned when a file cannot be interpreted as a document.
	ErrNotRecognized = errors.New("docship: document not recognized")

	// ErrFormatRejected is returned when a document format is not in the accepted set.
	ErrFormatRejected = errors.New("docship: format not accepted")

	// ErrStale is returned when a document is older than the freshness window.
	ErrStale = errors.New("docship: document is stale")

	// ErrSignFailed is returned when the signer could not sign a document.
	ErrSignFailed = errors.New("docship: sign failed")

	// ErrSendFailed is returned when the sender rejected signed content.
	ErrSendFailed = errors.New("docship: send failed")

	// ErrInvalidThingID is returned by thing services for empty or malformed ids.
	ErrInvalidThingID = errors.New("docship: invalid thing id")

	// ErrMissingCredential is returned when signing without a certificate or key.
	ErrMissingCredential = errors.New("docship: missing credential")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("docship: invalid configuration")
)
