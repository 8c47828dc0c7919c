package codec

import (
	"errors"
	"fmt"
)

// Decode error sentinels, matched with errors.Is.
var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrMissingTasks      = errors.New("document has no tasks field")
	ErrNoValidDays       = errors.New("document has no valid day columns")
)

// Kind classifies a DecodeError.
type Kind int

// Decode error kinds.
const (
	KindMalformed Kind = iota + 1
	KindMissingTasks
	KindNoValidDays
)

func (k Kind) sentinel() error {
	switch k {
	case KindMalformed:
		return ErrMalformedDocument
	case KindMissingTasks:
		return ErrMissingTasks
	case KindNoValidDays:
		return ErrNoValidDays
	default:
		return ErrMalformedDocument
	}
}

// DecodeError reports why a document could not be decoded.
type DecodeError struct {
	Err  error
	Kind Kind
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
	}
	return e.Kind.sentinel().Error()
}

// Is matches the sentinel of the error kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
