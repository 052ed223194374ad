package ports

import "github.com/mkoskinen/vfd-display/pkg/log"

// Logger is the structured logging abstraction from pkg/log, re-exported
// so internal packages need only one import.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors, re-exported for convenience.
var (
	String   = log.String
	Int      = log.Int
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
	Any      = log.Any
)
