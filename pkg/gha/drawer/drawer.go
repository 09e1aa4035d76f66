// Package drawer renders a validated pipeline's job dependency graph as a
// DOT document, for inspection alongside the compiled workflow. Vertices are
// the jobs, edges follow `needs`, and fill colors shade from blue to red
// with dependency depth.
package drawer

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/ghaflow/ghaflow/pkg/gha"
	"github.com/ghaflow/ghaflow/pkg/gha/transpile"
)

const maxRGB = 240

// Drawer renders the job graph of one pipeline.
type Drawer struct {
	graph graph.Graph[string, string]
}

// New builds a drawer from the transpiler, validating the pipeline first.
func New(t *transpile.GitHub) (*Drawer, error) {
	if t == nil {
		return nil, gha.ErrPipelineMustBeSet
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "unable to validate pipeline")
	}

	depths := jobDepths(t)
	maxDepth := 0
	for _, d := range depths {
		if d > maxDepth {
			maxDepth = d
		}
	}

	g := graph.New(graph.StringHash, graph.Directed())
	for _, name := range t.Order() {
		hex, err := depthColor(depths[name], maxDepth)
		if err != nil {
			return nil, err
		}
		err = g.AddVertex(name,
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", hex),
			graph.VertexAttribute("fontcolor", "white"),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add vertex %q", name)
		}
	}
	for _, job := range t.Pipeline().Jobs() {
		for _, dep := range job.DependsOn() {
			if err := g.AddEdge(dep, job.Name()); err != nil {
				return nil, errors.Wrapf(err, "unable to add edge from %s to %s", dep, job.Name())
			}
		}
	}

	return &Drawer{graph: g}, nil
}

// WriteDOT writes the DOT document to the writer.
func (d *Drawer) WriteDOT(w io.Writer) error {
	return dot(d.graph, w)
}

// Draw writes the DOT document to a file.
func (d *Drawer) Draw(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", path)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to write dot file %s", path)
	}

	return nil
}

// jobDepths computes the longest dependency chain below each job. Walking in
// topological order means every dependency is resolved before its dependents.
func jobDepths(t *transpile.GitHub) map[string]int {
	depths := make(map[string]int)
	for _, name := range t.Order() {
		job, _ := t.Pipeline().Job(name)
		depth := 0
		for _, dep := range job.DependsOn() {
			if d := depths[dep] + 1; d > depth {
				depth = d
			}
		}
		depths[name] = depth
	}

	return depths
}

func depthColor(depth, maxDepth int) (string, error) {
	fraction := 0.0
	if maxDepth > 0 {
		fraction = float64(depth) / float64(maxDepth)
	}

	red := maxRGB * fraction
	blue := -maxRGB*fraction + maxRGB

	c, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return c.ToHEX().String(), nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the [dot] renderer.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func generateDOT[K comparable, T any](gra graph.Graph[K, T], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for vertex, adjacencies := range adjacencyMap {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		for adjacency, edge := range adjacencies {
			stmt := statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}
