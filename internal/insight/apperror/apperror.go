// Package apperror defines the failure kinds a pipeline stage can report and the
// user-facing text relayed to the chat when a request is aborted.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a stage failure.
type Kind string

const (
	KindInvalidSymbol       Kind = "InvalidSymbol"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindRecognitionFailed   Kind = "RecognitionFailed"
	KindRateLimited         Kind = "RateLimited"
)

// Sentinels for errors.Is matching.
var (
	ErrInvalidSymbol       = &Error{Kind: KindInvalidSymbol}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable}
	ErrRecognitionFailed   = &Error{Kind: KindRecognitionFailed}
	ErrRateLimited         = &Error{Kind: KindRateLimited}
)

// Error is a typed stage failure. Op names the failing call, Err the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func InvalidSymbol(op string, err error) *Error { return New(KindInvalidSymbol, op, err) }

func UpstreamUnavailable(op string, err error) *Error { return New(KindUpstreamUnavailable, op, err) }

func RecognitionFailed(op string, err error) *Error { return New(KindRecognitionFailed, op, err) }

func RateLimited(op string, err error) *Error { return New(KindRateLimited, op, err) }

// KindOf extracts the Kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage renders the plain-text reply sent to the requester when the pipeline aborts.
func UserMessage(err error, ticker string) string {
	switch KindOf(err) {
	case KindInvalidSymbol:
		return fmt.Sprintf("I couldn't find a chart for %q. Please check the ticker symbol and try again.", ticker)
	case KindUpstreamUnavailable:
		return "One of the data services is unavailable right now. Please try again in a few minutes."
	case KindRecognitionFailed:
		return fmt.Sprintf("I couldn't read any text from the %s chart, so there is nothing to analyze.", ticker)
	case KindRateLimited:
		return "Too many requests right now. Please wait a minute and try again."
	default:
		return fmt.Sprintf("Error analyzing %s. Please try again later.", ticker)
	}
}
