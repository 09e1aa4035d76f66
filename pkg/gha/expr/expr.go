package expr

import (
	"fmt"
	"strings"
)

// Op is a comparison operator.
type Op string

const (
	Eq Op = "=="
	Ne Op = "!="
	Lt Op = "<"
	Le Op = "<="
	Gt Op = ">"
	Ge Op = ">="
)

const (
	opAnd = "&&"
	opOr  = "||"
	opNot = "!"
)

// Expr is a condition expression tree. The set of implementations is closed
// so that Render and Evaluate stay exhaustive; build trees with the package
// constructors.
type Expr interface {
	node()
}

type literal struct {
	value any
}

type ref struct {
	path string
}

type unary struct {
	op      string
	operand Expr
}

type binary struct {
	op    string
	left  Expr
	right Expr
}

type call struct {
	name string
}

// invalid records a construction error. It renders and evaluates to that
// error so a malformed expression can never reach the compiled document.
type invalid struct {
	err *InvalidExpressionError
}

func (literal) node() {}
func (ref) node()     {}
func (unary) node()   {}
func (binary) node()  {}
func (call) node()    {}
func (invalid) node() {}

func invalidf(format string, args ...any) Expr {
	return invalid{err: &InvalidExpressionError{Reason: fmt.Sprintf(format, args...)}}
}

// Literal wraps a scalar value. Supported kinds are strings, booleans,
// integers and floats.
func Literal(value any) Expr {
	switch value.(type) {
	case string, bool, int, int64, float64:
		return literal{value: value}
	default:
		return invalidf("unsupported literal of type %T", value)
	}
}

// Ref references a context variable by dotted path, e.g. "github.ref" or
// "needs.build.result".
func Ref(path string) Expr {
	if strings.TrimSpace(path) == "" {
		return invalidf("reference path must not be empty")
	}
	for _, part := range strings.Split(path, ".") {
		if strings.TrimSpace(part) == "" {
			return invalidf("reference path %q has an empty segment", path)
		}
	}

	return ref{path: path}
}

// Not negates an expression.
func Not(e Expr) Expr {
	if e == nil {
		return invalidf("operand must not be nil")
	}

	return unary{op: opNot, operand: e}
}

// And combines two or more expressions with a logical AND.
func And(left, right Expr, more ...Expr) Expr {
	return combine(opAnd, left, right, more)
}

// Or combines two or more expressions with a logical OR.
func Or(left, right Expr, more ...Expr) Expr {
	return combine(opOr, left, right, more)
}

func combine(op string, left, right Expr, more []Expr) Expr {
	if left == nil || right == nil {
		return invalidf("operand must not be nil")
	}
	out := binary{op: op, left: left, right: right}
	for _, e := range more {
		if e == nil {
			return invalidf("operand must not be nil")
		}
		out = binary{op: op, left: out, right: e}
	}

	return out
}

// Compare builds a comparison between two expressions. The engine does not
// type-check the operands; kind mismatches surface at evaluation time.
func Compare(op Op, left, right Expr) Expr {
	switch op {
	case Eq, Ne, Lt, Le, Gt, Ge:
	default:
		return invalidf("unknown comparison operator %q", string(op))
	}
	if left == nil || right == nil {
		return invalidf("operand must not be nil")
	}

	return binary{op: string(op), left: left, right: right}
}

// Equals is shorthand for Compare(Eq, left, right).
func Equals(left, right Expr) Expr { return Compare(Eq, left, right) }

// NotEquals is shorthand for Compare(Ne, left, right).
func NotEquals(left, right Expr) Expr { return Compare(Ne, left, right) }
