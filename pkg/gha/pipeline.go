package gha

import "github.com/ghaflow/ghaflow/internal/ordered"

// Pipeline is a named collection of jobs. Jobs keep their declaration order,
// which the compiler uses to break ties when ordering the dependency graph,
// so compiled output is stable across runs.
type Pipeline struct {
	name          string
	jobs          *ordered.Map[string, *Job]
	on            *Triggers
	defaultRunsOn string
	defaultEnv    *ordered.Map[string, string]
}

// New creates an empty pipeline.
func New(name string, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		name: name,
		jobs: ordered.New[string, *Job](),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// AddJob registers a job. A name collision fails with DuplicateJobError and
// leaves the pipeline unchanged.
func (p *Pipeline) AddJob(job *Job) error {
	if job == nil {
		return ErrJobMustBeSet
	}
	if p.jobs.Has(job.Name()) {
		return &DuplicateJobError{Name: job.Name()}
	}
	p.jobs.Set(job.Name(), job)

	return nil
}

// Job returns the job with the given name.
func (p *Pipeline) Job(name string) (*Job, bool) {
	return p.jobs.Get(name)
}

// Jobs returns the jobs in declaration order.
func (p *Pipeline) Jobs() []*Job {
	return p.jobs.Values()
}

// JobIndex returns the declaration position of the named job, or -1.
func (p *Pipeline) JobIndex(name string) int {
	return p.jobs.Index(name)
}

// On returns the trigger set, nil when the compiler should fall back to a
// plain push trigger.
func (p *Pipeline) On() *Triggers { return p.on }

// DefaultRunsOn returns the runner image applied to jobs that declare none.
func (p *Pipeline) DefaultRunsOn() string { return p.defaultRunsOn }

// DefaultEnv returns the environment applied to jobs that declare none,
// nil when unset.
func (p *Pipeline) DefaultEnv() *ordered.Map[string, string] {
	if p.defaultEnv == nil {
		return nil
	}

	return p.defaultEnv.Clone()
}
