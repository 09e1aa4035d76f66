package gha

// Event is one workflow trigger with its parameters.
type Event struct {
	Name     string
	Branches []string
	Tags     []string
	Cron     []string
}

// Triggers declares what starts the workflow. Events keep declaration order.
type Triggers struct {
	events []Event
}

// NewTriggers creates an empty trigger set.
func NewTriggers() *Triggers {
	return &Triggers{}
}

// Push triggers the workflow on pushes, optionally limited to branches.
func (t *Triggers) Push(branches ...string) *Triggers {
	t.events = append(t.events, Event{Name: "push", Branches: branches})

	return t
}

// PushTags triggers the workflow on pushed tags matching the patterns.
func (t *Triggers) PushTags(tags ...string) *Triggers {
	t.events = append(t.events, Event{Name: "push", Tags: tags})

	return t
}

// PullRequest triggers the workflow on pull requests, optionally limited to
// target branches.
func (t *Triggers) PullRequest(branches ...string) *Triggers {
	t.events = append(t.events, Event{Name: "pull_request", Branches: branches})

	return t
}

// WorkflowDispatch allows manual runs.
func (t *Triggers) WorkflowDispatch() *Triggers {
	t.events = append(t.events, Event{Name: "workflow_dispatch"})

	return t
}

// Schedule triggers the workflow on the given cron expressions.
func (t *Triggers) Schedule(cron ...string) *Triggers {
	t.events = append(t.events, Event{Name: "schedule", Cron: cron})

	return t
}

// Events returns the declared events in order. The slice is a copy.
func (t *Triggers) Events() []Event {
	events := make([]Event, len(t.events))
	copy(events, t.events)

	return events
}
