package logging

import "errors"

// ErrInvalidLogLevel is returned by Config.Validate when Level is set to
// something parseLevel doesn't recognize.
var ErrInvalidLogLevel = errors.New("invalid log level")
