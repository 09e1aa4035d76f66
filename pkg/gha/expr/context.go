package expr

import "fmt"

// Context builds references into a named GitHub Actions context.
type Context struct {
	name string
}

// Ctx returns a reference builder for the named context.
func Ctx(name string) Context {
	return Context{name: name}
}

// Ref builds a reference to a field of the context, e.g.
// GitHub.Ref("event_name") renders as github.event_name.
func (c Context) Ref(field string) Expr {
	return Ref(c.name + "." + field)
}

// String returns the bare context name.
func (c Context) String() string {
	return c.name
}

// The contexts a workflow condition usually reaches for.
var (
	GitHub = Ctx("github")
	Runner = Ctx("runner")
	Env    = Ctx("env")
	Needs  = Ctx("needs")
)

// Always builds the always() status check, which holds even when a prior job
// failed or the run was cancelled.
func Always() Expr { return call{name: "always"} }

// Success builds the success() status check.
func Success() Expr { return call{name: "success"} }

// Failure builds the failure() status check.
func Failure() Expr { return call{name: "failure"} }

// Matrix returns the interpolation placeholder for a matrix variable, for use
// inside step inputs and commands: Matrix("os") -> "${{ matrix.os }}".
// The key is taken verbatim; the transpiler checks it against the axes the
// job declares.
func Matrix(key string) string {
	return fmt.Sprintf("${{ matrix.%s }}", key)
}
