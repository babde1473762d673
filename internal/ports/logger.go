package ports

import "github.com/bft-labs/docship/pkg/log"

// Logger is the structured logging port. It is shared with pkg/log so
// embedders can pass the same implementation to every component.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors re-exported for the application layer.
var (
	String   = log.String
	Strings  = log.Strings
	Stringer = log.Stringer
	Int      = log.Int
	Bool     = log.Bool
	Duration = log.Duration
	Time     = log.Time
	Err      = log.Err
)
