package transpile

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ghaflow/ghaflow/pkg/gha"
)

// Document is the compiled workflow: the deterministic, ordered structure an
// external writer serialises to disk. Jobs appear in topological order;
// fields a job or step does not carry are omitted from the YAML entirely,
// never emitted as null.
type Document struct {
	Name string
	On   []gha.Event
	Jobs []JobRecord
}

// JobRecord is one compiled job definition.
type JobRecord struct {
	Name           string
	RunsOn         string
	If             string
	TimeoutMinutes int
	Env            []gha.Input
	Strategy       *Strategy
	Needs          []string
	Steps          []StepRecord
}

// Strategy is the compiled strategy block of a job with a matrix.
type Strategy struct {
	Axes     []MatrixAxis
	Include  []map[string]any
	Exclude  []map[string]any
	FailFast *bool
}

// MatrixAxis is one matrix axis with its values, in declaration order.
type MatrixAxis struct {
	Key    string
	Values []any
}

// StepRecord is one compiled step.
type StepRecord struct {
	ID   string
	Name string
	Uses string
	Run  string
	If   string
	With []gha.Input
}

// Job returns the compiled record for the named job.
func (d *Document) Job(name string) (JobRecord, bool) {
	for _, job := range d.Jobs {
		if job.Name == name {
			return job, true
		}
	}

	return JobRecord{}, false
}

// YAML serialises the document with 2-space indentation. Output is
// byte-stable for equal documents.
func (d *Document) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, errors.Wrap(err, "unable to encode workflow document")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "unable to finish workflow document")
	}

	return buf.Bytes(), nil
}

// MarshalYAML builds the node tree by hand so mapping order follows the
// document and absent fields disappear instead of marshalling as null.
func (d *Document) MarshalYAML() (any, error) {
	jobs := &yaml.Node{Kind: yaml.MappingNode}
	for _, job := range d.Jobs {
		node, err := job.yamlNode()
		if err != nil {
			return nil, err
		}
		jobs.Content = append(jobs.Content, scalarNode(job.Name), node)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(root, "name", scalarNode(d.Name))
	appendPair(root, "on", triggersNode(d.On))
	appendPair(root, "jobs", jobs)

	return root, nil
}

func (j JobRecord) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(node, "runs-on", scalarNode(j.RunsOn))
	if j.If != "" {
		appendPair(node, "if", scalarNode(j.If))
	}
	if j.TimeoutMinutes > 0 {
		appendPair(node, "timeout-minutes", intNode(j.TimeoutMinutes))
	}
	if len(j.Env) > 0 {
		env := &yaml.Node{Kind: yaml.MappingNode}
		for _, entry := range j.Env {
			value, err := valueNode(entry.Value)
			if err != nil {
				return nil, err
			}
			appendPair(env, entry.Key, value)
		}
		appendPair(node, "env", env)
	}
	if j.Strategy != nil {
		strategy, err := j.Strategy.yamlNode()
		if err != nil {
			return nil, err
		}
		appendPair(node, "strategy", strategy)
	}
	if len(j.Needs) > 0 {
		appendPair(node, "needs", stringSeqNode(j.Needs))
	}

	steps := &yaml.Node{Kind: yaml.SequenceNode}
	for _, step := range j.Steps {
		stepNode, err := step.yamlNode()
		if err != nil {
			return nil, err
		}
		steps.Content = append(steps.Content, stepNode)
	}
	appendPair(node, "steps", steps)

	return node, nil
}

func (s *Strategy) yamlNode() (*yaml.Node, error) {
	matrix := &yaml.Node{Kind: yaml.MappingNode}
	for _, axis := range s.Axes {
		values, err := valueNode(axis.Values)
		if err != nil {
			return nil, err
		}
		appendPair(matrix, axis.Key, values)
	}
	if len(s.Include) > 0 {
		include, err := entriesNode(s.Include)
		if err != nil {
			return nil, err
		}
		appendPair(matrix, "include", include)
	}
	if len(s.Exclude) > 0 {
		exclude, err := entriesNode(s.Exclude)
		if err != nil {
			return nil, err
		}
		appendPair(matrix, "exclude", exclude)
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(node, "matrix", matrix)
	if s.FailFast != nil {
		appendPair(node, "fail-fast", boolNode(*s.FailFast))
	}

	return node, nil
}

func (s StepRecord) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if s.ID != "" {
		appendPair(node, "id", scalarNode(s.ID))
	}
	if s.Name != "" {
		appendPair(node, "name", scalarNode(s.Name))
	}
	if s.Uses != "" {
		appendPair(node, "uses", scalarNode(s.Uses))
	}
	if s.Run != "" {
		appendPair(node, "run", scalarNode(s.Run))
	}
	if len(s.With) > 0 {
		with := &yaml.Node{Kind: yaml.MappingNode}
		for _, input := range s.With {
			value, err := valueNode(input.Value)
			if err != nil {
				return nil, err
			}
			appendPair(with, input.Key, value)
		}
		appendPair(node, "with", with)
	}
	if s.If != "" {
		appendPair(node, "if", scalarNode(s.If))
	}

	return node, nil
}

// triggersNode renders the `on:` block. No declared events compiles to a
// plain push trigger; events without parameters compile to a scalar or
// sequence; anything parameterised compiles to a mapping, merging repeated
// event names.
func triggersNode(events []gha.Event) *yaml.Node {
	if len(events) == 0 {
		return scalarNode("push")
	}

	bare := true
	for _, e := range events {
		if len(e.Branches) > 0 || len(e.Tags) > 0 || len(e.Cron) > 0 {
			bare = false
			break
		}
	}
	if bare {
		if len(events) == 1 {
			return scalarNode(events[0].Name)
		}
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range events {
			node.Content = append(node.Content, scalarNode(e.Name))
		}

		return node
	}

	merged := mergeEvents(events)
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range merged {
		appendPair(node, e.Name, eventNode(e))
	}

	return node
}

func mergeEvents(events []gha.Event) []gha.Event {
	var merged []gha.Event
	index := make(map[string]int)
	for _, e := range events {
		i, ok := index[e.Name]
		if !ok {
			index[e.Name] = len(merged)
			merged = append(merged, e)
			continue
		}
		merged[i].Branches = append(merged[i].Branches, e.Branches...)
		merged[i].Tags = append(merged[i].Tags, e.Tags...)
		merged[i].Cron = append(merged[i].Cron, e.Cron...)
	}

	return merged
}

func eventNode(e gha.Event) *yaml.Node {
	if e.Name == "schedule" {
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, cron := range e.Cron {
			entry := &yaml.Node{Kind: yaml.MappingNode}
			appendPair(entry, "cron", scalarNode(cron))
			node.Content = append(node.Content, entry)
		}

		return node
	}

	if len(e.Branches) == 0 && len(e.Tags) == 0 {
		return nullNode()
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	if len(e.Branches) > 0 {
		appendPair(node, "branches", stringSeqNode(e.Branches))
	}
	if len(e.Tags) > 0 {
		appendPair(node, "tags", stringSeqNode(e.Tags))
	}

	return node
}

// entriesNode renders include/exclude entries with their keys sorted, since
// the entries arrive as plain maps and the output must stay byte-stable.
func entriesNode(entries []map[string]any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, entry := range entries {
		keys := make([]string, 0, len(entry))
		for k := range entry {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		entryNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			value, err := valueNode(entry[k])
			if err != nil {
				return nil, err
			}
			appendPair(entryNode, k, value)
		}
		node.Content = append(node.Content, entryNode)
	}

	return node, nil
}

// valueNode encodes an opaque input value. Maps encode with sorted keys to
// keep the output deterministic; everything else defers to the yaml encoder.
func valueNode(v any) (*yaml.Node, error) {
	switch value := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			child, err := valueNode(value[k])
			if err != nil {
				return nil, err
			}
			appendPair(node, k, child)
		}

		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range value {
			child, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}

		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, errors.Wrap(err, "unable to encode input value")
		}

		return node, nil
	}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalarNode(key), value)
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int) *yaml.Node {
	node := &yaml.Node{}
	_ = node.Encode(i)

	return node
}

func boolNode(b bool) *yaml.Node {
	node := &yaml.Node{}
	_ = node.Encode(b)

	return node
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: ""}
}

func stringSeqNode(items []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range items {
		node.Content = append(node.Content, scalarNode(item))
	}

	return node
}
