package transpile

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownDependencyError reports a job depending on a name no job in the
// pipeline carries.
type UnknownDependencyError struct {
	Job     string
	Missing string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("job %q depends on unknown job %q", e.Job, e.Missing)
}

// CyclicDependencyError reports a dependency cycle. Path holds the full
// cycle, first job repeated at the end, e.g. [a b a].
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Path, " -> ")
}

// UndefinedMatrixVarError reports a job interpolating matrix variables it
// never declares, either because it has no matrix at all or because the
// variables are missing from its axes and include entries.
type UndefinedMatrixVarError struct {
	Job       string
	Vars      []string
	Available []string
}

func (e *UndefinedMatrixVarError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("job %q uses matrix variables %v but declares no matrix", e.Job, e.Vars)
	}

	return fmt.Sprintf("job %q uses undefined matrix variables %v, available: %v", e.Job, e.Vars, e.Available)
}

func sortedUnique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)

	return out
}
