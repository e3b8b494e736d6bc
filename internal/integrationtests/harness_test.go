package integrationtests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/emlc/internal/app"
	"github.com/specialistvlad/emlc/internal/emitter"
	"github.com/specialistvlad/emlc/internal/hcl"
	"github.com/specialistvlad/emlc/internal/testutil"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// result holds the observable outcome of one compile run.
type result struct {
	Report    *app.Report
	Output    string
	LogOutput string
	Err       error
}

// runCompile writes files to a temp dir and compiles the "model.hcl" entry in
// it through the full driver. A "config.hcl" entry is passed as the config
// file. Construction errors fail the test; run errors are returned.
func runCompile(t *testing.T, files map[string]string, cfg app.Config) *result {
	t.Helper()

	dir := testutil.WriteFiles(t, files)
	cfg.ManifestPath = filepath.Join(dir, "model.hcl")
	if _, ok := files["config.hcl"]; ok {
		cfg.ConfigPath = filepath.Join(dir, "config.hcl")
	}
	cfg.LogLevel = "debug"

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a, err := app.NewApp(out, logs, &cfg, hcl.NewLoader())
	require.NoError(t, err, "app construction should succeed")

	t.Cleanup(func() {
		if os.Getenv(testutil.LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	report, err := a.Run(context.Background())
	return &result{Report: report, Output: out.String(), LogOutput: logs.String(), Err: err}
}

// runPlan compiles with the plan backend and returns the single recorded
// function.
func runPlan(t *testing.T, manifest string) (emitter.Function, *result) {
	t.Helper()
	res := runCompile(t, map[string]string{"model.hcl": manifest}, app.Config{Backend: app.BackendPlan})
	require.NoError(t, res.Err)

	var plan []emitter.Function
	require.NoError(t, yaml.Unmarshal([]byte(res.Output), &plan))
	require.Len(t, plan, 1)
	return plan[0], res
}
