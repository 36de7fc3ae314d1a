// Package engine defines the contract between the batch scheduler and the
// document conversion engine. The engine is a black box: it is handed a
// source document and an existing output directory and either produces a
// markup file or reports a domain failure. The scheduler owns directory
// creation; the engine may assume its output directory exists.
package engine

import (
	"context"
	"time"
)

// Options carries per-request conversion settings threaded through from the
// batch configuration.
type Options struct {
	OCR     bool          `json:"ocr" yaml:"ocr"`
	DPI     int           `json:"dpi" yaml:"dpi"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Request identifies one conversion.
type Request struct {
	SourcePath string
	OutputDir  string
	Options    Options
}

// Response reports a successful conversion.
type Response struct {
	OutputPath string
	Pages      int
	Images     int
	Duration   time.Duration
}

// Service converts a single document. Implementations must be safe for
// concurrent use; the scheduler dispatches up to its worker budget of
// conversions at once.
type Service interface {
	Convert(ctx context.Context, request *Request) (*Response, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context, request *Request) (*Response, error)

// Convert implements Service.
func (f ServiceFunc) Convert(ctx context.Context, request *Request) (*Response, error) {
	return f(ctx, request)
}
