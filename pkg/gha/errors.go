package gha

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("pipeline must be set")
	ErrJobMustBeSet      = errors.New("job must be set")
	ErrNoActiveJob       = errors.New("no active job: step builders must run inside a Define block")
	ErrNothingDefined    = errors.New("no job or step has been defined yet")
)

// DuplicateStepError reports a step whose id collides with one already
// attached to the same job.
type DuplicateStepError struct {
	Job string
	ID  string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("job %q already has a step with id %q", e.Job, e.ID)
}

// DuplicateJobError reports a job whose name collides with one already
// registered in the same pipeline.
type DuplicateJobError struct {
	Name string
}

func (e *DuplicateJobError) Error() string {
	return fmt.Sprintf("pipeline already has a job named %q", e.Name)
}
