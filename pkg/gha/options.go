package gha

import (
	"github.com/ghaflow/ghaflow/internal/ordered"
	"github.com/ghaflow/ghaflow/pkg/gha/expr"
)

// PipelineOption configures a pipeline at construction.
type PipelineOption func(p *Pipeline)

// WithTriggers sets the workflow triggers. Without it the compiler emits a
// plain push trigger.
func WithTriggers(t *Triggers) PipelineOption {
	return func(p *Pipeline) {
		p.on = t
	}
}

// WithDefaultRunsOn sets the runner image for jobs that declare none.
func WithDefaultRunsOn(image string) PipelineOption {
	return func(p *Pipeline) {
		p.defaultRunsOn = image
	}
}

// WithDefaultEnv adds an environment variable applied to jobs that declare
// no environment of their own.
func WithDefaultEnv(key, value string) PipelineOption {
	return func(p *Pipeline) {
		if p.defaultEnv == nil {
			p.defaultEnv = ordered.New[string, string]()
		}
		p.defaultEnv.Set(key, value)
	}
}

// JobOption configures a job at construction.
type JobOption func(j *Job)

// RunsOn sets the runner image for the job.
func RunsOn(image string) JobOption {
	return func(j *Job) {
		j.runsOn = image
	}
}

// DependsOn records dependencies on other jobs by name.
func DependsOn(names ...string) JobOption {
	return func(j *Job) {
		for _, name := range names {
			j.AddDependency(name)
		}
	}
}

// If sets the job condition.
func If(cond expr.Expr) JobOption {
	return func(j *Job) {
		j.cond = cond
	}
}

// Timeout sets the job timeout in minutes.
func Timeout(minutes int) JobOption {
	return func(j *Job) {
		j.timeoutMinutes = minutes
	}
}

// EnvVar adds a job environment variable, keeping declaration order.
func EnvVar(key, value string) JobOption {
	return func(j *Job) {
		if j.env == nil {
			j.env = ordered.New[string, string]()
		}
		j.env.Set(key, value)
	}
}

// WithMatrix sets the job build matrix.
func WithMatrix(m *Matrix) JobOption {
	return func(j *Job) {
		j.matrix = m
	}
}

// FailFast overrides the strategy fail-fast flag. Only meaningful together
// with WithMatrix.
func FailFast(v bool) JobOption {
	return func(j *Job) {
		j.failFast = &v
	}
}

// StepOption configures a step at construction.
type StepOption func(s *Step)

// StepID sets the step id. Non-empty ids must be unique within a job.
func StepID(id string) StepOption {
	return func(s *Step) {
		s.id = id
	}
}

// StepName sets the step display name.
func StepName(name string) StepOption {
	return func(s *Step) {
		s.name = name
	}
}

// StepIf sets the step condition.
func StepIf(cond expr.Expr) StepOption {
	return func(s *Step) {
		s.cond = cond
	}
}

// StepInput sets a step input, keeping declaration order.
func StepInput(key string, value any) StepOption {
	return func(s *Step) {
		*s = s.WithInput(key, value)
	}
}
