package gha

import "github.com/ghaflow/ghaflow/internal/ordered"

// Matrix declares a build matrix for a job: named axes plus optional include
// and exclude entries, mirroring the strategy.matrix block of the compiled
// workflow. Axis declaration order is preserved in the output.
type Matrix struct {
	axes    *ordered.Map[string, []any]
	include []map[string]any
	exclude []map[string]any
}

// NewMatrix creates an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{axes: ordered.New[string, []any]()}
}

// Axis declares an axis with its values, e.g. Axis("os", "ubuntu-latest",
// "macos-latest"). Re-declaring an axis replaces its values.
func (m *Matrix) Axis(key string, values ...any) *Matrix {
	m.axes.Set(key, values)

	return m
}

// Include appends include entries, which add combinations and may introduce
// keys beyond the declared axes.
func (m *Matrix) Include(entries ...map[string]any) *Matrix {
	m.include = append(m.include, entries...)

	return m
}

// Exclude appends exclude entries, removing combinations from the product of
// the axes.
func (m *Matrix) Exclude(entries ...map[string]any) *Matrix {
	m.exclude = append(m.exclude, entries...)

	return m
}

// Axes returns the declared axes in declaration order.
func (m *Matrix) Axes() *ordered.Map[string, []any] {
	return m.axes.Clone()
}

// IncludeEntries returns the include entries in declaration order.
func (m *Matrix) IncludeEntries() []map[string]any {
	entries := make([]map[string]any, len(m.include))
	copy(entries, m.include)

	return entries
}

// ExcludeEntries returns the exclude entries in declaration order.
func (m *Matrix) ExcludeEntries() []map[string]any {
	entries := make([]map[string]any, len(m.exclude))
	copy(entries, m.exclude)

	return entries
}

// Keys returns every variable name a step may interpolate: the declared axes
// plus any keys the include entries introduce. Exclude entries never widen
// the set.
func (m *Matrix) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, m.axes.Len())
	for _, k := range m.axes.Keys() {
		keys[k] = struct{}{}
	}
	for _, entry := range m.include {
		for k := range entry {
			keys[k] = struct{}{}
		}
	}

	return keys
}
