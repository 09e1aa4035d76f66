// Package steps provides the step builders used inside a gha.Define block.
// Each builder appends a step to the job currently being defined and returns
// the attached step; outside a Define block they fail with gha.ErrNoActiveJob.
package steps

import (
	"fmt"
	"strings"

	"github.com/ghaflow/ghaflow/pkg/gha"
)

const checkoutAction = "actions/checkout@v4"

// Run appends a step that runs a shell command.
func Run(command string, opts ...gha.StepOption) (gha.Step, error) {
	return gha.AttachStep(gha.NewRunStep("", command, opts...))
}

// Echo appends a step that echoes a message. The message is double-quoted
// with embedded quotes escaped.
func Echo(message string, opts ...gha.StepOption) (gha.Step, error) {
	quoted := strings.ReplaceAll(message, `"`, `\"`)

	return Run(fmt.Sprintf(`echo "%s"`, quoted), opts...)
}

// Checkout appends a checkout step. Repository and ref are optional; pass ""
// to check out the triggering commit of the current repository.
func Checkout(repository, ref string, opts ...gha.StepOption) (gha.Step, error) {
	step := gha.NewStep("", checkoutAction, opts...)
	if repository != "" {
		step = step.WithInput("repository", repository)
	}
	if ref != "" {
		step = step.WithInput("ref", ref)
	}

	return gha.AttachStep(step)
}

// Uses appends a step that uses an action, e.g. "actions/setup-go@v5".
// Inputs go through gha.StepInput so their order is preserved.
func Uses(action string, opts ...gha.StepOption) (gha.Step, error) {
	return gha.AttachStep(gha.NewStep("", action, opts...))
}
