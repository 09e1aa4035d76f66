package gha

import (
	"github.com/ghaflow/ghaflow/internal/ordered"
	"github.com/ghaflow/ghaflow/pkg/gha/expr"
)

// Job is a named collection of ordered steps. Dependencies on other jobs are
// recorded by name and resolved only when the pipeline is compiled, so jobs
// can be declared in any order.
type Job struct {
	name           string
	steps          []Step
	stepIDs        map[string]struct{}
	dependsOn      []string
	dependsSeen    map[string]struct{}
	cond           expr.Expr
	runsOn         string
	timeoutMinutes int
	env            *ordered.Map[string, string]
	matrix         *Matrix
	failFast       *bool
}

// NewJob creates a job with the given name.
func NewJob(name string, opts ...JobOption) *Job {
	j := &Job{
		name:        name,
		stepIDs:     make(map[string]struct{}),
		dependsSeen: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Name returns the job name.
func (j *Job) Name() string { return j.name }

// AddStep appends a step. A non-empty step id that collides with an earlier
// one fails with DuplicateStepError and leaves the job unchanged.
func (j *Job) AddStep(step Step) error {
	if id := step.ID(); id != "" {
		if _, ok := j.stepIDs[id]; ok {
			return &DuplicateStepError{Job: j.name, ID: id}
		}
		j.stepIDs[id] = struct{}{}
	}
	j.steps = append(j.steps, step)

	return nil
}

// AddDependency records a dependency on another job by name. The name is not
// resolved here; unknown names surface when the pipeline is compiled.
// Duplicates are dropped.
func (j *Job) AddDependency(name string) {
	if _, ok := j.dependsSeen[name]; ok {
		return
	}
	j.dependsSeen[name] = struct{}{}
	j.dependsOn = append(j.dependsOn, name)
}

// RunIf attaches a condition to the job, replacing any previous one.
func (j *Job) RunIf(cond expr.Expr) {
	j.cond = cond
}

// Steps returns the steps in declaration order. The slice is a copy.
func (j *Job) Steps() []Step {
	steps := make([]Step, len(j.steps))
	copy(steps, j.steps)

	return steps
}

// DependsOn returns the declared dependency names. The slice is a copy.
func (j *Job) DependsOn() []string {
	deps := make([]string, len(j.dependsOn))
	copy(deps, j.dependsOn)

	return deps
}

// If returns the job condition, nil when unconditional.
func (j *Job) If() expr.Expr { return j.cond }

// RunsOn returns the runner image, empty when the pipeline default applies.
func (j *Job) RunsOn() string { return j.runsOn }

// TimeoutMinutes returns the job timeout, zero when unset.
func (j *Job) TimeoutMinutes() int { return j.timeoutMinutes }

// Env returns the job environment in declaration order, nil when empty.
func (j *Job) Env() *ordered.Map[string, string] {
	if j.env == nil {
		return nil
	}

	return j.env.Clone()
}

// Matrix returns the job matrix, nil when the job declares none.
func (j *Job) Matrix() *Matrix { return j.matrix }

// FailFast reports the strategy fail-fast override, nil when unset.
func (j *Job) FailFast() *bool { return j.failFast }

// replaceLastStep swaps the most recently attached step. Used by RunIf to
// hang a condition on a step that was appended by a builder call.
func (j *Job) replaceLastStep(step Step) {
	j.steps[len(j.steps)-1] = step
}
