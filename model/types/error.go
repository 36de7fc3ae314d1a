// Package types defines the error taxonomy shared across the batch engine.
//
// Every failure that can surface from a batch run belongs to exactly one
// kind. Per-job kinds (IO, ResourceExhaustion, Engine) are recorded on the
// failed job and never escape the scheduler; Configuration and Protocol
// errors abort the run.
package types

import (
	"errors"
	"fmt"
)

// Kind classifies an error for retry and propagation decisions.
type Kind string

const (
	// KindConfiguration marks an invalid run configuration, detected before
	// any job is dispatched.
	KindConfiguration Kind = "configuration"

	// KindIO marks a per-job input/output failure, e.g. an unwritable or
	// missing output path.
	KindIO Kind = "io"

	// KindResourceExhaustion marks a per-job allocation failure during
	// conversion. Never retried.
	KindResourceExhaustion Kind = "resourceExhaustion"

	// KindEngine marks a domain failure reported by the conversion engine,
	// e.g. an unreadable input document.
	KindEngine Kind = "engine"

	// KindProtocol marks an internal contract violation, e.g. completing a
	// job that is not running. Programmer error, treated as fatal.
	KindProtocol Kind = "protocol"
)

// Error carries a kind alongside the underlying cause.
type Error struct {
	kind    Kind
	message string
	cause   error

	// missingOutputDir flags the narrow IO sub-class eligible for a single
	// retry after the scheduler creates the directory.
	missingOutputDir bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap exposes the cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// NewConfigurationError creates a fatal pre-flight configuration error.
func NewConfigurationError(message string, args ...interface{}) error {
	return &Error{kind: KindConfiguration, message: fmt.Sprintf(message, args...)}
}

// NewIOError wraps a per-job I/O failure.
func NewIOError(cause error, message string, args ...interface{}) error {
	return &Error{kind: KindIO, message: fmt.Sprintf(message, args...), cause: cause}
}

// NewMissingOutputDirError wraps the retryable missing-output-directory case.
func NewMissingOutputDirError(cause error, dir string) error {
	return &Error{
		kind:             KindIO,
		message:          fmt.Sprintf("output directory %s does not exist", dir),
		cause:            cause,
		missingOutputDir: true,
	}
}

// NewResourceExhaustionError wraps a per-job allocation failure.
func NewResourceExhaustionError(cause error, message string, args ...interface{}) error {
	return &Error{kind: KindResourceExhaustion, message: fmt.Sprintf(message, args...), cause: cause}
}

// NewEngineError wraps a conversion engine domain failure.
func NewEngineError(cause error, message string, args ...interface{}) error {
	return &Error{kind: KindEngine, message: fmt.Sprintf(message, args...), cause: cause}
}

// NewProtocolError creates an internal contract-violation error.
func NewProtocolError(message string, args ...interface{}) error {
	return &Error{kind: KindProtocol, message: fmt.Sprintf(message, args...)}
}

// KindOf returns the kind of err, or KindEngine when err carries no explicit
// classification (an unclassified engine callback failure is a domain
// failure, not an internal one).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindEngine
}

// IsFatal reports whether err must abort the run rather than fail a job.
func IsFatal(err error) bool {
	kind := KindOf(err)
	return kind == KindConfiguration || kind == KindProtocol
}

// IsMissingOutputDir reports whether err is the retryable IO sub-class caused
// by an absent output directory.
func IsMissingOutputDir(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.missingOutputDir
}
