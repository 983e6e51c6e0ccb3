package filter

import (
	"errors"
	"fmt"
)

// ErrEmptyExpression is returned when Compile is given a blank expression.
var ErrEmptyExpression = errors.New("empty expression")

// CompilationError wraps an expression the expr compiler rejected.
type CompilationError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("filter %q: %s", e.Expression, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CompilationError) Unwrap() error { return e.Err }

// EvaluationError records which item a compiled filter failed on.
type EvaluationError struct {
	Expression string
	ItemURI    string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("filter %q on %s: %v", e.Expression, e.ItemURI, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
