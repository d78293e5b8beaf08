package docpost

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-docpost/internal/components"
	"github.com/alnah/go-docpost/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrIO          = errors.New("I/O failure")
	ErrReadInput   = fmt.Errorf("%w: reading input", ErrIO)
	ErrWriteOutput = fmt.Errorf("%w: writing output", ErrIO)
	ErrCreateDir   = fmt.Errorf("%w: creating output directory", ErrIO)

	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrInvalidPolicy    = errors.New("invalid run policy")

	// Re-exported so callers can match errors without importing internals.
	ErrParse               = pipeline.ErrParse
	ErrStructuralViolation = pipeline.ErrStructuralViolation
	ErrRender              = pipeline.ErrRender
	ErrInvalidElementID    = pipeline.ErrInvalidElementID
	ErrUnknownRecipe       = components.ErrUnknownRecipe
)

// StructuralViolationError reports a component element used in a shape
// it forbids.
type StructuralViolationError = pipeline.StructuralViolationError

// Kind classifies a task failure.
type Kind string

const (
	KindParse     Kind = "parse"
	KindStructure Kind = "structure"
	KindRender    Kind = "render"
	KindIO        Kind = "io"
	KindCanceled  Kind = "canceled"
)

// TaskError is the failure of one file task.
type TaskError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// classify maps an error to its Kind.
func classify(err error) Kind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, pipeline.ErrParse):
		return KindParse
	case errors.Is(err, pipeline.ErrStructuralViolation):
		return KindStructure
	default:
		return KindRender
	}
}
