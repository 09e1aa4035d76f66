package gha

import "github.com/ghaflow/ghaflow/pkg/gha/expr"

// Declarative builder state. A Define call makes its job the active target
// for the steps subpackage and for RunIf. Like the registry this is
// process-wide; concurrent Define calls are out of contract.
var (
	activeJob   *Job
	lastJob     *Job
	lastWasStep bool
)

// Define declares a job on the default pipeline. The build function runs with
// the job active, so the steps subpackage attaches to it:
//
//	gha.Define("build", func() {
//		steps.Checkout()
//		steps.Run("make build")
//	}, gha.RunsOn("ubuntu-22.04"))
func Define(name string, build func(), opts ...JobOption) (*Job, error) {
	return DefineIn(Default(), name, build, opts...)
}

// DefineIn declares a job on an explicit pipeline. Use it instead of Define
// when isolating pipelines from the process-wide registry.
func DefineIn(p *Pipeline, name string, build func(), opts ...JobOption) (*Job, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	job := NewJob(name, opts...)
	if err := p.AddJob(job); err != nil {
		return nil, err
	}

	prevJob, prevWasStep := activeJob, lastWasStep
	activeJob, lastWasStep = job, false
	defer func() {
		activeJob, lastWasStep = prevJob, prevWasStep
		lastJob = job
	}()

	if build != nil {
		build()
	}

	return job, nil
}

// ActiveJob returns the job currently being defined. Step builders use it;
// outside a Define block it fails with ErrNoActiveJob.
func ActiveJob() (*Job, error) {
	if activeJob == nil {
		return nil, ErrNoActiveJob
	}

	return activeJob, nil
}

// AttachStep appends the step to the active job and returns the attached
// copy. It is the hook the steps subpackage builds on.
func AttachStep(step Step) (Step, error) {
	job, err := ActiveJob()
	if err != nil {
		return Step{}, err
	}
	if err := job.AddStep(step); err != nil {
		return Step{}, err
	}
	lastWasStep = true

	return step, nil
}

// RunIf attaches a condition to the most recently defined step or job.
// Inside a Define block it targets the last step attached there, or the job
// itself when no step has been attached yet; after a Define block it targets
// the job that block defined.
func RunIf(cond expr.Expr) error {
	if activeJob != nil {
		if lastWasStep && len(activeJob.steps) > 0 {
			last := activeJob.steps[len(activeJob.steps)-1]
			activeJob.replaceLastStep(last.WithCondition(cond))

			return nil
		}
		activeJob.RunIf(cond)

		return nil
	}

	if lastJob == nil {
		return ErrNothingDefined
	}
	lastJob.RunIf(cond)

	return nil
}
