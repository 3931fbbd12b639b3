package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/ideavalidation/internal/validation"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd, a := newRootCmd()
	defer a.close()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("IDEAVAL_STORE_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("IDEAVAL_LOG_LEVEL", "error")
	t.Setenv("IDEAVAL_RESEARCH_ENABLED", "false")
	return dir
}

func TestValidateThenHistory(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "", "validate", "--format", "json", "--price", "49",
		"A B2B SaaS tool that automates invoice reconciliation for small accounting firms")
	require.NoError(t, err)

	var res validation.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.Meta.RunID)
	assert.Contains(t, []string{"GO", "REVIEW", "NO-GO"}, string(res.Status))

	out, _, err = run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, res.Meta.RunID)

	out, _, err = run(t, "", "history", "show", res.Meta.RunID)
	require.NoError(t, err)
	assert.Contains(t, out, "# Idea Validation Report")

	out, _, err = run(t, "", "history", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, string(res.Status)+"\t1")

	_, _, err = run(t, "", "history", "show", "missing")
	assert.Error(t, err)
}

func TestValidateInputFileAndHTML(t *testing.T) {
	dir := isolate(t)
	report := filepath.Join(dir, "report.html")

	out, _, err := run(t, `{"idea_text": "Handmade ceramic mugs sold online to coffee lovers", "price_usd": 38}`,
		"--no-history", "validate", "--input", "-", "--format", "html", "--out", report)
	require.NoError(t, err)
	assert.Contains(t, out, report)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Idea Validation Report</h1>")
}

func TestValidateRequiresIdea(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "--no-history", "validate")
	assert.Error(t, err)

	_, _, err = run(t, "", "--no-history", "validate", "--format", "pdf", "A marketplace for renting camping gear")
	assert.Error(t, err)
}

func TestBatchPreservesOrder(t *testing.T) {
	isolate(t)
	input := strings.Join([]string{
		`{"idea_text": "A marketplace connecting dog walkers with busy pet owners"}`,
		`# comment lines are skipped`,
		`{not json`,
		``,
		`{"idea_text": "An online marketplace selling counterfeit designer handbags"}`,
	}, "\n")

	out, errOut, err := run(t, input, "batch", "--concurrency", "2", "-")
	require.NoError(t, err)

	var lines []batchLine
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		var bl batchLine
		require.NoError(t, json.Unmarshal([]byte(l), &bl))
		lines = append(lines, bl)
	}
	require.Len(t, lines, 3)
	assert.Equal(t, 1, lines[0].Line)
	assert.NotNil(t, lines[0].Result)
	assert.Equal(t, 3, lines[1].Line)
	assert.NotEmpty(t, lines[1].Error)
	assert.Equal(t, 5, lines[2].Line)
	require.NotNil(t, lines[2].Result)
	assert.Equal(t, "NO-GO", string(lines[2].Result.Status))
	assert.Contains(t, errOut, "validated 3 ideas")
	assert.Contains(t, errOut, "errors=1")
}

func TestPivotsCommand(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "--no-history", "pivots", "--score", "20", "--model", "dtc_subscription", "--skills", "cooking",
		"A meal kit subscription for busy parents")
	require.NoError(t, err)
	assert.Contains(t, out, "# Pivot Suggestions")

	_, _, err = run(t, "", "--no-history", "pivots", "A meal kit subscription")
	assert.Error(t, err)

	_, _, err = run(t, "", "--no-history", "pivots", "--score", "120", "A meal kit subscription")
	assert.Error(t, err)
}

func TestHistoryDisabled(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "--no-history", "history")
	assert.Error(t, err)
}
