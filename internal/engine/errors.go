package engine

import (
	"errors"
	"fmt"
)

// FailureKind names the classification failure classes callers can observe.
type FailureKind string

const (
	KindInvalidInput       FailureKind = "invalid_input"
	KindAnalyzerDisabled   FailureKind = "analyzer_disabled"
	KindAnalyzerTimeout    FailureKind = "analyzer_timeout"
	KindAnalyzerTransport  FailureKind = "analyzer_transport_error"
	KindAnalyzerUnparsable FailureKind = "analyzer_unparsable_response"
)

// ClassificationError is the single failure outcome of Classify. The kind
// exists for diagnostics and caller retry policy, not for control flow.
type ClassificationError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("classification failed (%s): %s", e.Kind, e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (FailureKind, bool) {
	var ce *ClassificationError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// Retryable reports whether a failure is transient from the caller's point
// of view. Unparsable replies and invalid input do not become valid by
// retrying.
func Retryable(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	return kind == KindAnalyzerTimeout || kind == KindAnalyzerTransport
}
