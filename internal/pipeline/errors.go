package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/store"
)

var (
	// ErrConfiguration marks missing required data such as a base price.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput marks a run rejected before any stock moved.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIllegalTransition marks a state machine bug.
	ErrIllegalTransition = errors.New("illegal stage transition")
)

// Error wraps a run failure with the stage and product it belongs to.
type Error struct {
	Kind    error
	Stage   Stage
	Product model.ProductID
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	s := fmt.Sprintf("%s: product %q at %s", e.Kind.Error(), e.Product, e.Stage)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func configErrorf(stage Stage, id model.ProductID, format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Stage: stage, Product: id, Msg: fmt.Sprintf(format, args...)}
}

func invalidf(stage Stage, id model.ProductID, format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Stage: stage, Product: id, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns a short label for an error, suitable for metrics.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, store.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
