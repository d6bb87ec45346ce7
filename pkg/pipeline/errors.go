package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed trim or crop.
type ErrorKind int

const (
	KindSourceNotFound ErrorKind = iota + 1
	KindSourceUnreadable
	KindSinkCreationFailed
	KindRangeOutOfBounds
	KindDecodeOrWrite
	KindInvalidRange
	KindInvalidCrop
)

var kindNames = map[ErrorKind]string{
	KindSourceNotFound:     "SourceNotFound",
	KindSourceUnreadable:   "SourceUnreadable",
	KindSinkCreationFailed: "SinkCreationFailed",
	KindRangeOutOfBounds:   "RangeOutOfBounds",
	KindDecodeOrWrite:      "DecodeOrWriteError",
	KindInvalidRange:       "InvalidRange",
	KindInvalidCrop:        "InvalidCrop",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrSourceNotFound     = &Error{Kind: KindSourceNotFound}
	ErrSourceUnreadable   = &Error{Kind: KindSourceUnreadable}
	ErrSinkCreationFailed = &Error{Kind: KindSinkCreationFailed}
	ErrRangeOutOfBounds   = &Error{Kind: KindRangeOutOfBounds}
	ErrDecodeOrWrite      = &Error{Kind: KindDecodeOrWrite}
	ErrInvalidRange       = &Error{Kind: KindInvalidRange}
	ErrInvalidCrop        = &Error{Kind: KindInvalidCrop}
)

// Error is a classified stage failure.
type Error struct {
	Kind ErrorKind
	Path string // File the failure relates to
	Err  error
}

// NewError wraps err with a kind and path.
func NewError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
