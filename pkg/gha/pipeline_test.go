package gha_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghaflow/ghaflow/pkg/gha"
	"github.com/ghaflow/ghaflow/pkg/gha/expr"
)

func TestAddJobKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("lint")))
	require.NoError(t, p.AddJob(gha.NewJob("build")))
	require.NoError(t, p.AddJob(gha.NewJob("test")))

	var names []string
	for _, job := range p.Jobs() {
		names = append(names, job.Name())
	}
	assert.Equal(t, []string{"lint", "build", "test"}, names)
	assert.Equal(t, 1, p.JobIndex("build"))
}

func TestAddJobDuplicateLeavesPipelineUnchanged(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	first := gha.NewJob("build", gha.RunsOn("ubuntu-22.04"))
	require.NoError(t, p.AddJob(first))

	err := p.AddJob(gha.NewJob("build"))
	var dup *gha.DuplicateJobError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "build", dup.Name)

	assert.Len(t, p.Jobs(), 1)
	got, ok := p.Job("build")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestAddJobNil(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	err := p.AddJob(nil)
	assert.ErrorIs(t, err, gha.ErrJobMustBeSet)
}

func TestAddStepDuplicateIDLeavesJobUnchanged(t *testing.T) {
	t.Parallel()

	j := gha.NewJob("build")
	require.NoError(t, j.AddStep(gha.NewRunStep("compile", "make build")))

	err := j.AddStep(gha.NewRunStep("compile", "make rebuild"))
	var dup *gha.DuplicateStepError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "build", dup.Job)
	assert.Equal(t, "compile", dup.ID)

	steps := j.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "make build", steps[0].Run())
}

func TestAddStepEmptyIDsNeverCollide(t *testing.T) {
	t.Parallel()

	j := gha.NewJob("build")
	require.NoError(t, j.AddStep(gha.NewRunStep("", "make build")))
	require.NoError(t, j.AddStep(gha.NewRunStep("", "make test")))

	assert.Len(t, j.Steps(), 2)
}

func TestAddDependencyDeduplicates(t *testing.T) {
	t.Parallel()

	j := gha.NewJob("test")
	j.AddDependency("build")
	j.AddDependency("lint")
	j.AddDependency("build")

	assert.Equal(t, []string{"build", "lint"}, j.DependsOn())
}

func TestStepValueSemantics(t *testing.T) {
	t.Parallel()

	base := gha.NewStep("setup", "actions/setup-go@v5").WithInput("go-version", "1.20")

	conditioned := base.WithCondition(expr.Literal(true))
	extended := base.WithInput("cache", true)

	assert.Nil(t, base.If())
	assert.NotNil(t, conditioned.If())
	assert.Len(t, base.Inputs(), 1)
	assert.Len(t, extended.Inputs(), 2)
	assert.Equal(t, []gha.Input{
		{Key: "go-version", Value: "1.20"},
		{Key: "cache", Value: true},
	}, extended.Inputs())
}

func TestStepAttachedToJobIsIsolated(t *testing.T) {
	t.Parallel()

	j := gha.NewJob("build")
	step := gha.NewRunStep("compile", "make build")
	require.NoError(t, j.AddStep(step))

	// Deriving new steps from the original must not touch the attached copy.
	_ = step.WithCondition(expr.Literal(false)).WithInput("shell", "bash")

	attached := j.Steps()[0]
	assert.Nil(t, attached.If())
	assert.Empty(t, attached.Inputs())
}

func TestJobOptions(t *testing.T) {
	t.Parallel()

	cond := expr.Equals(expr.GitHub.Ref("ref"), expr.Literal("refs/heads/main"))
	j := gha.NewJob("release",
		gha.RunsOn("macos-latest"),
		gha.DependsOn("build", "test"),
		gha.If(cond),
		gha.Timeout(30),
		gha.EnvVar("CGO_ENABLED", "0"),
		gha.EnvVar("GOFLAGS", "-mod=readonly"),
	)

	assert.Equal(t, "macos-latest", j.RunsOn())
	assert.Equal(t, []string{"build", "test"}, j.DependsOn())
	assert.Equal(t, cond, j.If())
	assert.Equal(t, 30, j.TimeoutMinutes())
	require.NotNil(t, j.Env())
	assert.Equal(t, []string{"CGO_ENABLED", "GOFLAGS"}, j.Env().Keys())
}

func TestPipelineDefaults(t *testing.T) {
	t.Parallel()

	p := gha.New("ci",
		gha.WithDefaultRunsOn("ubuntu-22.04"),
		gha.WithDefaultEnv("CI", "true"),
		gha.WithTriggers(gha.NewTriggers().Push("main")),
	)

	assert.Equal(t, "ubuntu-22.04", p.DefaultRunsOn())
	require.NotNil(t, p.DefaultEnv())
	assert.Equal(t, []string{"CI"}, p.DefaultEnv().Keys())
	require.NotNil(t, p.On())
	require.Len(t, p.On().Events(), 1)
	assert.Equal(t, "push", p.On().Events()[0].Name)
}

func TestMatrixKeys(t *testing.T) {
	t.Parallel()

	m := gha.NewMatrix().
		Axis("os", "ubuntu-latest", "macos-latest").
		Axis("go", "1.20", "1.21").
		Include(map[string]any{"os": "windows-latest", "experimental": true}).
		Exclude(map[string]any{"os": "macos-latest", "go": "1.20", "skipped": true})

	keys := m.Keys()
	assert.Contains(t, keys, "os")
	assert.Contains(t, keys, "go")
	assert.Contains(t, keys, "experimental")
	// Exclude entries never widen the valid set.
	assert.NotContains(t, keys, "skipped")
}
