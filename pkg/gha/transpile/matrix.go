package transpile

import (
	"regexp"
	"sort"

	"github.com/ghaflow/ghaflow/pkg/gha"
)

var matrixVarPattern = regexp.MustCompile(`\$\{\{\s*matrix\.([\w-]+)\s*\}\}`)

// validateMatrixVars checks that every ${{ matrix.x }} interpolation in the
// compiled job is backed by a declared matrix variable. Include entries
// extend the valid set; exclude entries do not.
func validateMatrixVars(job *gha.Job, record JobRecord) error {
	used := make(map[string]struct{})
	scanJobRecord(record, used)
	if len(used) == 0 {
		return nil
	}

	if job.Matrix() == nil {
		return &UndefinedMatrixVarError{Job: job.Name(), Vars: sortedKeys(used)}
	}

	valid := job.Matrix().Keys()
	var unknown []string
	for v := range used {
		if _, ok := valid[v]; !ok {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)

		return &UndefinedMatrixVarError{
			Job:       job.Name(),
			Vars:      unknown,
			Available: sortedKeys(valid),
		}
	}

	return nil
}

func scanJobRecord(record JobRecord, used map[string]struct{}) {
	scanString(record.RunsOn, used)
	scanString(record.If, used)
	for _, entry := range record.Env {
		scanValue(entry.Value, used)
	}
	for _, step := range record.Steps {
		scanString(step.Name, used)
		scanString(step.Uses, used)
		scanString(step.Run, used)
		scanString(step.If, used)
		for _, input := range step.With {
			scanValue(input.Value, used)
		}
	}
}

func scanValue(v any, used map[string]struct{}) {
	switch value := v.(type) {
	case string:
		scanString(value, used)
	case map[string]any:
		for _, item := range value {
			scanValue(item, used)
		}
	case []any:
		for _, item := range value {
			scanValue(item, used)
		}
	}
}

func scanString(s string, used map[string]struct{}) {
	for _, match := range matrixVarPattern.FindAllStringSubmatch(s, -1) {
		used[match[1]] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
