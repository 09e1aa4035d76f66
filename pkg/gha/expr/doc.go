// Package expr builds the condition expressions attached to jobs and steps.
//
// Expressions form a small closed tree: literals, context references, the
// boolean combinators and comparisons. Render turns a tree into the string
// GitHub Actions expects in an `if:` field, and Evaluate interprets the same
// tree against a plain map so tests can check the semantics without a runner.
// The package never executes anything and performs no I/O.
package expr
