package ai

import (
	"context"
	"errors"
	"fmt"

	"brand-suitability/backend/internal/analysis"
)

// Analyzer exposes the deep semantic analysis capability. The engine
// depends only on this interface so the transport never leaks past this
// package.
type Analyzer interface {
	Enabled() bool
	Analyze(ctx context.Context, title, content, excerpt string) (analysis.Record, error)
}

// ErrDisabled signals the analyzer was constructed without credentials.
var ErrDisabled = errors.New("deep analyzer disabled")

// FailureKind classifies analyzer failures for diagnostics. Control flow
// treats them all the same; only retry policy and logging distinguish them.
type FailureKind string

const (
	FailureTimeout    FailureKind = "timeout"
	FailureTransport  FailureKind = "transport_error"
	FailureUnparsable FailureKind = "unparsable_response"
)

// Error wraps an analyzer failure with its kind.
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("deep analyzer %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (FailureKind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}
