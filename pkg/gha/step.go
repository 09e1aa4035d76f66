package gha

import (
	"github.com/ghaflow/ghaflow/internal/ordered"
	"github.com/ghaflow/ghaflow/pkg/gha/expr"
)

// Input is one named step input, in declaration order.
type Input struct {
	Key   string
	Value any
}

// Step is the smallest unit of work inside a job: either an action reference
// ("uses") or a shell command ("run"), with ordered inputs and an optional
// condition.
//
// Step is a value type. The With* methods return modified copies, so a step
// already attached to a job is never changed by later builder calls.
type Step struct {
	id   string
	name string
	uses string
	run  string
	with *ordered.Map[string, any]
	cond expr.Expr
}

// NewStep creates a step that uses an action, e.g. "actions/checkout@v4".
func NewStep(id, uses string, opts ...StepOption) Step {
	s := Step{id: id, uses: uses}
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// NewRunStep creates a step that runs a shell command.
func NewRunStep(id, command string, opts ...StepOption) Step {
	s := Step{id: id, run: command}
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// ID returns the step id. Empty ids are legal; only non-empty ids must be
// unique within a job.
func (s Step) ID() string { return s.id }

// Name returns the display name, possibly empty.
func (s Step) Name() string { return s.name }

// Uses returns the action reference, empty for run steps.
func (s Step) Uses() string { return s.uses }

// Run returns the shell command, empty for uses steps.
func (s Step) Run() string { return s.run }

// If returns the step condition, nil when unconditional.
func (s Step) If() expr.Expr { return s.cond }

// Inputs returns the step inputs in declaration order.
func (s Step) Inputs() []Input {
	if s.with == nil {
		return nil
	}
	inputs := make([]Input, 0, s.with.Len())
	for _, key := range s.with.Keys() {
		value, _ := s.with.Get(key)
		inputs = append(inputs, Input{Key: key, Value: value})
	}

	return inputs
}

// WithCondition returns a copy of the step with the condition attached,
// replacing any previous one.
func (s Step) WithCondition(cond expr.Expr) Step {
	s.cond = cond

	return s
}

// WithInput returns a copy of the step with the input set. First declaration
// of a key fixes its position in the compiled document.
func (s Step) WithInput(key string, value any) Step {
	if s.with == nil {
		s.with = ordered.New[string, any]()
	} else {
		s.with = s.with.Clone()
	}
	s.with.Set(key, value)

	return s
}
