package transpile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghaflow/ghaflow/pkg/gha"
	"github.com/ghaflow/ghaflow/pkg/gha/expr"
	"github.com/ghaflow/ghaflow/pkg/gha/transpile"
)

func ciPipeline(t *testing.T) *gha.Pipeline {
	t.Helper()

	p := gha.New("ci")

	build := gha.NewJob("build")
	require.NoError(t, build.AddStep(gha.NewStep("checkout", "actions/checkout@v4")))
	require.NoError(t, build.AddStep(gha.NewRunStep("compile", "make build")))
	require.NoError(t, p.AddJob(build))

	test := gha.NewJob("test",
		gha.DependsOn("build"),
		gha.If(expr.Equals(expr.Ref("build.result"), expr.Literal("success"))),
	)
	require.NoError(t, test.AddStep(gha.NewRunStep("", "make test")))
	require.NoError(t, p.AddJob(test))

	return p
}

func TestCompileScenario(t *testing.T) {
	t.Parallel()

	doc, err := transpile.New(ciPipeline(t)).Document()
	require.NoError(t, err)

	assert.Equal(t, "ci", doc.Name)
	require.Len(t, doc.Jobs, 2)
	assert.Equal(t, "build", doc.Jobs[0].Name)
	assert.Equal(t, "test", doc.Jobs[1].Name)

	test, ok := doc.Job("test")
	require.True(t, ok)
	assert.Equal(t, []string{"build"}, test.Needs)
	assert.Equal(t, "build.result == 'success'", test.If)

	build, ok := doc.Job("build")
	require.True(t, ok)
	assert.Empty(t, build.Needs)
	assert.Empty(t, build.If)
	require.Len(t, build.Steps, 2)
	assert.Equal(t, "checkout", build.Steps[0].ID)
	assert.Equal(t, "actions/checkout@v4", build.Steps[0].Uses)
	assert.Equal(t, "compile", build.Steps[1].ID)
	assert.Equal(t, "make build", build.Steps[1].Run)
}

func TestCompileIsIdempotent(t *testing.T) {
	t.Parallel()

	tr := transpile.New(ciPipeline(t))

	first, err := tr.YAML()
	require.NoError(t, err)
	second, err := tr.YAML()
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// A fresh transpiler over the same pipeline agrees too.
	third, err := transpile.New(ciPipeline(t)).YAML()
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestTopologicalOrderBreaksTiesByDeclaration(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, p.AddJob(gha.NewJob(name)))
	}

	tr := transpile.New(p)
	require.NoError(t, tr.Validate())
	assert.Equal(t, []string{"c", "a", "b"}, tr.Order())
}

func TestTopologicalOrderRespectsDependencies(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("deploy", gha.DependsOn("test", "lint"))))
	require.NoError(t, p.AddJob(gha.NewJob("lint")))
	require.NoError(t, p.AddJob(gha.NewJob("test", gha.DependsOn("build"))))
	require.NoError(t, p.AddJob(gha.NewJob("build")))

	tr := transpile.New(p)
	require.NoError(t, tr.Validate())
	assert.Equal(t, []string{"lint", "build", "test", "deploy"}, tr.Order())
}

func TestUnknownDependency(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("test", gha.DependsOn("build"))))

	_, err := transpile.New(p).Document()
	var unknown *transpile.UnknownDependencyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "test", unknown.Job)
	assert.Equal(t, "build", unknown.Missing)
}

func TestDirectCycle(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("a", gha.DependsOn("b"))))
	require.NoError(t, p.AddJob(gha.NewJob("b", gha.DependsOn("a"))))

	_, err := transpile.New(p).Document()
	var cycle *transpile.CyclicDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.Contains(t, cycle.Path, "a")
	assert.Contains(t, cycle.Path, "b")
	// Full cycle, first job repeated at the end.
	assert.Equal(t, cycle.Path[0], cycle.Path[len(cycle.Path)-1])
}

func TestTransitiveCycleReportsFullPath(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("a", gha.DependsOn("c"))))
	require.NoError(t, p.AddJob(gha.NewJob("b", gha.DependsOn("a"))))
	require.NoError(t, p.AddJob(gha.NewJob("c", gha.DependsOn("b"))))

	err := transpile.New(p).Validate()
	var cycle *transpile.CyclicDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.Len(t, cycle.Path, 4)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycle.Path[:3])
}

func TestSelfDependency(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("a", gha.DependsOn("a"))))

	err := transpile.New(p).Validate()
	var cycle *transpile.CyclicDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "a"}, cycle.Path)
}

func TestNeedsSortedUnique(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("c")))
	require.NoError(t, p.AddJob(gha.NewJob("a")))
	deploy := gha.NewJob("deploy", gha.DependsOn("c", "a", "c"))
	require.NoError(t, p.AddJob(deploy))

	doc, err := transpile.New(p).Document()
	require.NoError(t, err)

	record, ok := doc.Job("deploy")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, record.Needs)
	// The declared order is untouched on the model itself.
	assert.Equal(t, []string{"c", "a"}, deploy.DependsOn())
}

func TestRunnerDefaults(t *testing.T) {
	t.Parallel()

	p := gha.New("ci", gha.WithDefaultRunsOn("ubuntu-22.04"))
	require.NoError(t, p.AddJob(gha.NewJob("build")))
	require.NoError(t, p.AddJob(gha.NewJob("mac", gha.RunsOn("macos-latest"))))

	doc, err := transpile.New(p).Document()
	require.NoError(t, err)

	build, _ := doc.Job("build")
	assert.Equal(t, "ubuntu-22.04", build.RunsOn)
	mac, _ := doc.Job("mac")
	assert.Equal(t, "macos-latest", mac.RunsOn)
}

func TestRunnerFallback(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("build")))

	doc, err := transpile.New(p).Document()
	require.NoError(t, err)
	assert.Equal(t, "ubuntu-latest", doc.Jobs[0].RunsOn)
}

func TestDefaultEnvAppliesOnlyWithoutJobEnv(t *testing.T) {
	t.Parallel()

	p := gha.New("ci", gha.WithDefaultEnv("CI", "true"))
	require.NoError(t, p.AddJob(gha.NewJob("plain")))
	require.NoError(t, p.AddJob(gha.NewJob("custom", gha.EnvVar("CGO_ENABLED", "0"))))

	doc, err := transpile.New(p).Document()
	require.NoError(t, err)

	plain, _ := doc.Job("plain")
	assert.Equal(t, []gha.Input{{Key: "CI", Value: "true"}}, plain.Env)
	custom, _ := doc.Job("custom")
	assert.Equal(t, []gha.Input{{Key: "CGO_ENABLED", Value: "0"}}, custom.Env)
}

// Job and step conditions are emitted independently: the job `if` gates the
// whole job, the step `if` gates the step. Effective execution is their
// conjunction, checked here through Evaluate for both mixed combinations.
func TestJobAndStepConditionsAreIndependent(t *testing.T) {
	t.Parallel()

	jobCond := expr.Equals(expr.GitHub.Ref("ref"), expr.Literal("refs/heads/main"))
	stepCond := expr.Equals(expr.Runner.Ref("os"), expr.Literal("Linux"))

	p := gha.New("ci")
	job := gha.NewJob("build", gha.If(jobCond))
	require.NoError(t, job.AddStep(gha.NewRunStep("", "make build").WithCondition(stepCond)))
	require.NoError(t, p.AddJob(job))

	doc, err := transpile.New(p).Document()
	require.NoError(t, err)

	record := doc.Jobs[0]
	assert.Equal(t, "github.ref == 'refs/heads/main'", record.If)
	require.Len(t, record.Steps, 1)
	assert.Equal(t, "runner.os == 'Linux'", record.Steps[0].If)

	onMainOnWindows := map[string]any{
		"github": map[string]any{"ref": "refs/heads/main"},
		"runner": map[string]any{"os": "Windows"},
	}
	onBranchOnLinux := map[string]any{
		"github": map[string]any{"ref": "refs/heads/dev"},
		"runner": map[string]any{"os": "Linux"},
	}

	for name, ctx := range map[string]map[string]any{
		"job true, step false": onMainOnWindows,
		"job false, step true": onBranchOnLinux,
	} {
		jobOK, err := expr.Evaluate(jobCond, ctx)
		require.NoError(t, err, name)
		stepOK, err := expr.Evaluate(stepCond, ctx)
		require.NoError(t, err, name)
		runs := jobOK.(bool) && stepOK.(bool)
		assert.False(t, runs, name)
	}
}

func TestInvalidConditionAbortsCompile(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("build", gha.If(expr.Ref("")))))

	_, err := transpile.New(p).Document()
	require.Error(t, err)
	var invalidErr *expr.InvalidExpressionError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestYAMLOmitsAbsentFields(t *testing.T) {
	t.Parallel()

	p := gha.New("ci")
	require.NoError(t, p.AddJob(gha.NewJob("build")))

	out, err := transpile.New(p).YAML()
	require.NoError(t, err)

	yml := string(out)
	assert.Contains(t, yml, "name: ci")
	assert.Contains(t, yml, "on: push")
	assert.Contains(t, yml, "runs-on: ubuntu-latest")
	assert.NotContains(t, yml, "if:")
	assert.NotContains(t, yml, "needs:")
	assert.NotContains(t, yml, "null")
	assert.NotContains(t, yml, "timeout-minutes")
	assert.NotContains(t, yml, "strategy")
}

func TestYAMLFullJob(t *testing.T) {
	t.Parallel()

	p := gha.New("ci", gha.WithTriggers(gha.NewTriggers().Push("main").PullRequest()))
	job := gha.NewJob("test",
		gha.DependsOn("build"),
		gha.Timeout(15),
		gha.If(expr.Success()),
	)
	require.NoError(t, job.AddStep(
		gha.NewStep("setup", "actions/setup-go@v5").WithInput("go-version", "1.20"),
	))
	require.NoError(t, p.AddJob(gha.NewJob("build")))
	require.NoError(t, p.AddJob(job))

	out, err := transpile.New(p).YAML()
	require.NoError(t, err)

	yml := string(out)
	assert.Contains(t, yml, "if: success()")
	assert.Contains(t, yml, "timeout-minutes: 15")
	assert.Contains(t, yml, "uses: actions/setup-go@v5")
	assert.Contains(t, yml, "go-version:")
	assert.Contains(t, yml, "branches:")
	assert.Contains(t, yml, "pull_request:")
}

func TestTriggerVariants(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, trig *gha.Triggers) string {
		t.Helper()
		p := gha.New("ci", gha.WithTriggers(trig))
		require.NoError(t, p.AddJob(gha.NewJob("build")))
		out, err := transpile.New(p).YAML()
		require.NoError(t, err)

		return string(out)
	}

	t.Run("bare events collapse to a sequence", func(t *testing.T) {
		t.Parallel()

		yml := run(t, gha.NewTriggers().Push().WorkflowDispatch())
		assert.Contains(t, yml, "- push")
		assert.Contains(t, yml, "- workflow_dispatch")
	})

	t.Run("single bare event collapses to a scalar", func(t *testing.T) {
		t.Parallel()

		yml := run(t, gha.NewTriggers().WorkflowDispatch())
		assert.Contains(t, yml, "on: workflow_dispatch")
	})

	t.Run("schedule renders cron entries", func(t *testing.T) {
		t.Parallel()

		yml := run(t, gha.NewTriggers().Schedule("0 4 * * *"))
		assert.Contains(t, yml, "schedule:")
		assert.Contains(t, yml, `cron: 0 4 * * *`)
	})

	t.Run("push branches and tags merge", func(t *testing.T) {
		t.Parallel()

		yml := run(t, gha.NewTriggers().Push("main").PushTags("v*"))
		assert.Contains(t, yml, "branches:")
		assert.Contains(t, yml, "tags:")
	})
}

func TestTranspilerFromDefaultRegistry(t *testing.T) {
	gha.Reset()
	t.Cleanup(gha.Reset)

	_, err := gha.Define("build", nil)
	require.NoError(t, err)

	doc, err := transpile.New(nil).Document()
	require.NoError(t, err)
	assert.Equal(t, gha.DefaultName, doc.Name)
	require.Len(t, doc.Jobs, 1)
	assert.Equal(t, "build", doc.Jobs[0].Name)
}
