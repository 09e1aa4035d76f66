// Package gha is a declarative builder for GitHub Actions workflows.
//
// A workflow is modelled as a Pipeline of named Jobs, each holding ordered
// Steps and name-based dependencies on other jobs. Conditions built with the
// expr subpackage gate jobs and steps. Nothing executes here: the model is
// validated and compiled into a deterministic document by the transpile
// subpackage, and whatever writes that document to disk lives outside this
// library.
//
// Pipelines can be built explicitly through New and AddJob, or declaratively
// through Define and the steps subpackage, which attach to a process-wide
// default pipeline:
//
//	gha.Define("build", func() {
//		steps.Checkout()
//		steps.Run("make build")
//	})
//	gha.Define("test", func() {
//		steps.Run("make test")
//	}, gha.DependsOn("build"))
//
// The default registry and the active-job state behind Define are plain
// process-wide variables. Defining pipelines from several goroutines at once
// is out of contract; callers needing isolation should build explicit
// Pipeline values instead.
package gha
