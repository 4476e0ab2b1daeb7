package core

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies failures at the service boundary.
type ErrorKind int

const (
	// KindStoreFailure is the catch-all: the underlying persistence call was rejected.
	KindStoreFailure ErrorKind = iota
	KindNotFound
	KindInvalidArgument
	KindConflict
	// KindNoContent means the target exists but has nothing to show.
	KindNoContent
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindConflict:
		return "Conflict"
	case KindNoContent:
		return "NoContent"
	default:
		return "StoreFailure"
	}
}

// Error is a classified error. Message is safe to show to clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string // per-field failures, json field name -> text
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func NewNotFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewInvalidArgumentError(msg string, fields ...map[string]string) error {
	e := &Error{Kind: KindInvalidArgument, Message: msg}
	if len(fields) > 0 {
		e.Fields = fields[0]
	}
	return e
}

func NewConflictError(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NewNoContentError(msg string) error {
	return &Error{Kind: KindNoContent, Message: msg}
}

// NewStoreError wraps a rejected persistence call.
func NewStoreError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindStoreFailure, Message: msg, Err: err}
}

// KindOf returns the ErrorKind of err, looking through wrapped errors.
// Unclassified errors are store failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreFailure
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldErrors joins per-field failures into a single line, sorted by field.
func FieldErrors(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}

type shutdown struct {
	message string
}

// NewShutdownError is returned when the app can no longer serve requests and must stop.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	var s *shutdown
	return errors.As(err, &s)
}
