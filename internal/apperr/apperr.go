// Package apperr defines the closed set of error kinds surfaced to the user.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies an error category callers can branch on.
type Kind int

const (
	KindUnknown Kind = iota
	KindDurationUnavailable
	KindChunkExtractionFailed
	KindTranscriptionFailed
	KindEmptyTranscript
	KindProjectLoadMalformed
	KindSerializationFailed
	KindIoFailed
	KindClipboardUnavailable
	KindUnknownCommand
	KindInsufficientAdjustmentSamples
	KindLowCorrectionConfidence
)

var kindNames = map[Kind]string{
	KindUnknown:                       "unknown",
	KindDurationUnavailable:           "duration unavailable",
	KindChunkExtractionFailed:         "chunk extraction failed",
	KindTranscriptionFailed:           "transcription failed",
	KindEmptyTranscript:               "empty transcript",
	KindProjectLoadMalformed:          "malformed project",
	KindSerializationFailed:           "serialization failed",
	KindIoFailed:                      "io failed",
	KindClipboardUnavailable:          "clipboard unavailable",
	KindUnknownCommand:                "unknown command",
	KindInsufficientAdjustmentSamples: "insufficient adjustment samples",
	KindLowCorrectionConfidence:       "low correction confidence",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error carries a Kind plus the payload that kind defines: Index for chunk
// failures, Detail for transcription failures and unknown commands, StdDev for
// low confidence.
type Error struct {
	Kind   Kind
	Index  int
	Detail string
	StdDev float64
	Err    error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindChunkExtractionFailed:
		msg = fmt.Sprintf("failed to create chunk %d", e.Index)
	case KindTranscriptionFailed:
		msg = fmt.Sprintf("transcription of chunk %d failed", e.Index)
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
	case KindLowCorrectionConfidence:
		msg = fmt.Sprintf("pattern is not consistent enough (std dev: %.2f)", e.StdDev)
	case KindUnknownCommand:
		msg = "unknown command: " + e.Detail
	default:
		msg = e.Kind.String()
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
	}
	if e.Err != nil && e.Kind != KindTranscriptionFailed {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, apperr.E(kind))
// works regardless of payload.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// E returns a payload-free error of kind k, usable as an errors.Is target.
func E(k Kind) error { return &Error{Kind: k} }

// Wrap attaches kind k to err. A nil err yields nil.
func Wrap(k Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// DurationUnavailable reports that the asset length could not be determined.
func DurationUnavailable(err error) error {
	return &Error{Kind: KindDurationUnavailable, Err: err}
}

// ChunkExtractionFailed reports that chunk index could not be cut from the asset.
func ChunkExtractionFailed(index int, err error) error {
	return &Error{Kind: KindChunkExtractionFailed, Index: index, Err: err}
}

// TranscriptionFailed reports a transcription failure for chunk index; detail
// is kept verbatim for the user.
func TranscriptionFailed(index int, detail string) error {
	return &Error{Kind: KindTranscriptionFailed, Index: index, Detail: detail}
}

// UnknownCommand reports an unrecognized command line.
func UnknownCommand(line string) error {
	return &Error{Kind: KindUnknownCommand, Detail: line}
}

// LowCorrectionConfidence reports a sample spread above the autofix threshold.
func LowCorrectionConfidence(stddev float64) error {
	return &Error{Kind: KindLowCorrectionConfidence, StdDev: stddev}
}
