package expr

import (
	"strconv"
	"strings"
)

// Render turns an expression tree into the string GitHub Actions evaluates in
// an `if:` field. Rendering is deterministic: structurally identical trees
// produce identical strings. The only failure mode is an expression that was
// malformed at construction time.
func Render(e Expr) (string, error) {
	switch v := e.(type) {
	case literal:
		return renderLiteral(v.value), nil
	case ref:
		return v.path, nil
	case call:
		return v.name + "()", nil
	case unary:
		inner, err := Render(v.operand)
		if err != nil {
			return "", err
		}

		return v.op + "(" + inner + ")", nil
	case binary:
		left, err := Render(v.left)
		if err != nil {
			return "", err
		}
		right, err := Render(v.right)
		if err != nil {
			return "", err
		}
		if v.op == opAnd || v.op == opOr {
			return "(" + left + ") " + v.op + " (" + right + ")", nil
		}

		return left + " " + v.op + " " + right, nil
	case invalid:
		return "", v.err
	default:
		return "", &InvalidExpressionError{Reason: "unknown expression node"}
	}
}

// renderLiteral quotes strings with single quotes, doubling embedded quotes
// per the GitHub Actions expression syntax. Numbers and booleans render bare.
func renderLiteral(value any) string {
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		// Unreachable: Literal rejects other kinds at construction.
		return ""
	}
}
