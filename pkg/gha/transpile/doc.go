// Package transpile validates a pipeline and compiles it into a GitHub
// Actions workflow document.
//
// The transpiler moves through three states: unvalidated, validated,
// compiled. Validation resolves every dependency name, rejects cycles with
// the full offending path, and fixes a deterministic topological order over
// the jobs (ties broken by declaration order, so identical input always
// compiles to identical bytes). Compilation renders every condition through
// the expr package and emits an ordered Document; any error aborts with no
// partial document, and compiling again re-derives an equal one.
package transpile
