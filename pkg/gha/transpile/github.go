package transpile

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/ghaflow/ghaflow/pkg/gha"
	"github.com/ghaflow/ghaflow/pkg/gha/expr"
)

const defaultRunner = "ubuntu-latest"

type state int

const (
	stateUnvalidated state = iota
	stateValidated
	stateCompiled
)

// GitHub compiles a pipeline into a GitHub Actions workflow.
type GitHub struct {
	pipeline *gha.Pipeline
	state    state
	order    []string
	graph    graph.Graph[string, string]
}

// New creates a transpiler for the pipeline. Passing nil targets the default
// registry pipeline.
func New(p *gha.Pipeline) *GitHub {
	if p == nil {
		p = gha.Default()
	}

	return &GitHub{pipeline: p}
}

// Pipeline returns the pipeline under compilation.
func (t *GitHub) Pipeline() *gha.Pipeline { return t.pipeline }

// Validate checks the job graph: every dependency must resolve to a job in
// the pipeline and the graph must be acyclic. It also fixes the topological
// order later used by Document. Calling it again on a validated transpiler
// is a no-op.
func (t *GitHub) Validate() error {
	if t.state >= stateValidated {
		return nil
	}

	jobs := t.pipeline.Jobs()

	// Names are unique by construction; re-checked here so a compile can
	// never trust a pipeline assembled through some future path that skips
	// AddJob.
	seen := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		if _, ok := seen[job.Name()]; ok {
			return &gha.DuplicateJobError{Name: job.Name()}
		}
		seen[job.Name()] = struct{}{}
	}

	for _, job := range jobs {
		for _, dep := range job.DependsOn() {
			if _, ok := t.pipeline.Job(dep); !ok {
				return &UnknownDependencyError{Job: job.Name(), Missing: dep}
			}
		}
	}

	if err := detectCycles(jobs); err != nil {
		return err
	}

	g := graph.New(graph.StringHash, graph.Directed())
	for _, job := range jobs {
		if err := g.AddVertex(job.Name()); err != nil {
			return errors.Wrapf(err, "unable to add job %q to the graph", job.Name())
		}
	}
	for _, job := range jobs {
		for _, dep := range job.DependsOn() {
			if err := g.AddEdge(dep, job.Name()); err != nil {
				return errors.Wrapf(err, "unable to add edge from %q to %q", dep, job.Name())
			}
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return t.pipeline.JobIndex(a) < t.pipeline.JobIndex(b)
	})
	if err != nil {
		return errors.Wrap(err, "unable to order the job graph")
	}

	t.graph = g
	t.order = order
	t.state = stateValidated

	return nil
}

// detectCycles runs a three-color depth-first search over the dependency
// edges and reports the first cycle with its full path.
func detectCycles(jobs []*gha.Job) error {
	const (
		white = iota // unvisited
		gray         // in progress
		black        // done
	)

	deps := make(map[string][]string, len(jobs))
	for _, job := range jobs {
		deps[job.Name()] = job.DependsOn()
	}

	color := make(map[string]int, len(jobs))
	var path []string

	var visit func(name string) *CyclicDependencyError
	visit = func(name string) *CyclicDependencyError {
		color[name] = gray
		path = append(path, name)

		for _, dep := range deps[name] {
			switch color[dep] {
			case gray:
				// Back edge: slice the cycle out of the current path.
				start := 0
				for i, n := range path {
					if n == dep {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, path[start:]...), dep)

				return &CyclicDependencyError{Path: cycle}
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		color[name] = black

		return nil
	}

	for _, job := range jobs {
		if color[job.Name()] == white {
			if err := visit(job.Name()); err != nil {
				return err
			}
		}
	}

	return nil
}

// Order returns the topological job order fixed by Validate.
func (t *GitHub) Order() []string {
	order := make([]string, len(t.order))
	copy(order, t.order)

	return order
}

// Graph returns the dependency graph built by Validate, with edges pointing
// from a dependency to the job that needs it. Nil before validation.
func (t *GitHub) Graph() graph.Graph[string, string] { return t.graph }

// Document compiles the pipeline. It validates first if needed, renders all
// conditions and returns the ordered workflow document. Errors abort the
// compile with no partial document. Compiling an already compiled pipeline
// re-derives an equal document.
func (t *GitHub) Document() (*Document, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	doc := &Document{
		Name: t.pipeline.Name(),
		On:   triggerEvents(t.pipeline.On()),
	}

	for _, name := range t.order {
		job, _ := t.pipeline.Job(name)
		record, err := t.compileJob(job)
		if err != nil {
			return nil, err
		}
		if err := validateMatrixVars(job, record); err != nil {
			return nil, err
		}
		doc.Jobs = append(doc.Jobs, record)
	}

	t.state = stateCompiled

	return doc, nil
}

// YAML compiles the pipeline and serialises the document.
func (t *GitHub) YAML() ([]byte, error) {
	doc, err := t.Document()
	if err != nil {
		return nil, err
	}

	return doc.YAML()
}

func (t *GitHub) compileJob(job *gha.Job) (JobRecord, error) {
	record := JobRecord{
		Name:           job.Name(),
		RunsOn:         job.RunsOn(),
		TimeoutMinutes: job.TimeoutMinutes(),
		Needs:          sortedUnique(job.DependsOn()),
	}
	if record.RunsOn == "" {
		record.RunsOn = t.pipeline.DefaultRunsOn()
	}
	if record.RunsOn == "" {
		record.RunsOn = defaultRunner
	}

	if cond := job.If(); cond != nil {
		rendered, err := expr.Render(cond)
		if err != nil {
			return JobRecord{}, errors.Wrapf(err, "unable to render condition of job %q", job.Name())
		}
		record.If = rendered
	}

	env := job.Env()
	if env == nil {
		env = t.pipeline.DefaultEnv()
	}
	if env != nil {
		for _, key := range env.Keys() {
			value, _ := env.Get(key)
			record.Env = append(record.Env, gha.Input{Key: key, Value: value})
		}
	}

	if m := job.Matrix(); m != nil {
		record.Strategy = compileStrategy(m, job.FailFast())
	}

	for i, step := range job.Steps() {
		stepRecord, err := compileStep(step)
		if err != nil {
			return JobRecord{}, errors.Wrapf(err, "unable to compile step %d of job %q", i, job.Name())
		}
		record.Steps = append(record.Steps, stepRecord)
	}

	return record, nil
}

func compileStrategy(m *gha.Matrix, failFast *bool) *Strategy {
	strategy := &Strategy{
		Include:  m.IncludeEntries(),
		Exclude:  m.ExcludeEntries(),
		FailFast: failFast,
	}
	axes := m.Axes()
	for _, key := range axes.Keys() {
		values, _ := axes.Get(key)
		strategy.Axes = append(strategy.Axes, MatrixAxis{Key: key, Values: values})
	}

	return strategy
}

func compileStep(step gha.Step) (StepRecord, error) {
	record := StepRecord{
		ID:   step.ID(),
		Name: step.Name(),
		Uses: step.Uses(),
		Run:  step.Run(),
		With: step.Inputs(),
	}
	if cond := step.If(); cond != nil {
		rendered, err := expr.Render(cond)
		if err != nil {
			return StepRecord{}, errors.Wrap(err, "unable to render step condition")
		}
		record.If = rendered
	}

	return record, nil
}

func triggerEvents(t *gha.Triggers) []gha.Event {
	if t == nil {
		return nil
	}

	return t.Events()
}
