package expr

import "fmt"

// InvalidExpressionError reports an expression that was malformed at
// construction time, e.g. a reference with an empty path.
type InvalidExpressionError struct {
	Reason string
}

func (e *InvalidExpressionError) Error() string {
	return "invalid expression: " + e.Reason
}

// UnresolvedReferenceError reports a reference whose path is absent from the
// evaluation context.
type UnresolvedReferenceError struct {
	Path string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q", e.Path)
}

// TypeMismatchError reports an operation applied to operands of incompatible
// kinds during evaluation.
type TypeMismatchError struct {
	Op    string
	Left  any
	Right any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %v %s %v", e.Left, e.Op, e.Right)
}
