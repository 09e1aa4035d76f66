package expr

import "strings"

// Evaluate interprets an expression against a context map. It exists for
// testing: it lets a suite check that a condition means what its rendered
// string says without going through a workflow runner. Nested contexts are
// plain maps, so "github.ref" resolves through ctx["github"].(map)["ref"].
//
// Status functions resolve through the context by bare name ("success",
// "failure"); always() is true regardless. Missing references fail with
// UnresolvedReferenceError, operand kind clashes with TypeMismatchError.
func Evaluate(e Expr, ctx map[string]any) (any, error) {
	switch v := e.(type) {
	case literal:
		return v.value, nil
	case ref:
		return resolve(v.path, ctx)
	case call:
		if v.name == "always" {
			return true, nil
		}
		val, ok := ctx[v.name]
		if !ok {
			return nil, &UnresolvedReferenceError{Path: v.name + "()"}
		}
		b, ok := val.(bool)
		if !ok {
			return nil, &TypeMismatchError{Op: v.name + "()", Left: val, Right: true}
		}

		return b, nil
	case unary:
		operand, err := Evaluate(v.operand, ctx)
		if err != nil {
			return nil, err
		}
		b, ok := operand.(bool)
		if !ok {
			return nil, &TypeMismatchError{Op: opNot, Left: operand, Right: nil}
		}

		return !b, nil
	case binary:
		return evaluateBinary(v, ctx)
	case invalid:
		return nil, v.err
	default:
		return nil, &InvalidExpressionError{Reason: "unknown expression node"}
	}
}

func evaluateBinary(b binary, ctx map[string]any) (any, error) {
	// Both sides evaluate eagerly; short-circuiting belongs to the workflow
	// runner, not to this test harness.
	left, err := Evaluate(b.left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := Evaluate(b.right, ctx)
	if err != nil {
		return nil, err
	}

	switch b.op {
	case opAnd, opOr:
		lb, lok := left.(bool)
		rb, rok := right.(bool)
		if !lok || !rok {
			return nil, &TypeMismatchError{Op: b.op, Left: left, Right: right}
		}
		if b.op == opAnd {
			return lb && rb, nil
		}

		return lb || rb, nil
	default:
		return compareValues(b.op, left, right)
	}
}

func compareValues(op string, left, right any) (any, error) {
	if lf, lok := toFloat(left); lok {
		if rf, rok := toFloat(right); rok {
			return compareOrdered(op, lf, rf), nil
		}

		return nil, &TypeMismatchError{Op: op, Left: left, Right: right}
	}

	switch lv := left.(type) {
	case string:
		rv, ok := right.(string)
		if !ok {
			return nil, &TypeMismatchError{Op: op, Left: left, Right: right}
		}

		return compareOrdered(op, lv, rv), nil
	case bool:
		rv, ok := right.(bool)
		if !ok || (op != string(Eq) && op != string(Ne)) {
			return nil, &TypeMismatchError{Op: op, Left: left, Right: right}
		}
		if op == string(Eq) {
			return lv == rv, nil
		}

		return lv != rv, nil
	default:
		return nil, &TypeMismatchError{Op: op, Left: left, Right: right}
	}
}

func compareOrdered[T interface{ ~string | ~float64 }](op string, left, right T) bool {
	switch Op(op) {
	case Eq:
		return left == right
	case Ne:
		return left != right
	case Lt:
		return left < right
	case Le:
		return left <= right
	case Gt:
		return left > right
	default:
		return left >= right
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func resolve(path string, ctx map[string]any) (any, error) {
	parts := strings.Split(path, ".")
	var current any = ctx
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, &UnresolvedReferenceError{Path: path}
		}
		current, ok = m[part]
		if !ok {
			return nil, &UnresolvedReferenceError{Path: path}
		}
	}

	return current, nil
}
