package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/pair-assessment/internal/catalog"
	"github.com/rcliao/pair-assessment/internal/model"
	"github.com/rcliao/pair-assessment/internal/scoring"
	"github.com/rcliao/pair-assessment/internal/session"
)

// resetFlags puts every flag back to its default; RootCmd is package state
// shared by all tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, db string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(RootCmd)
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetIn(strings.NewReader(""))
	RootCmd.SetArgs(append([]string{"--db", db}, args...))
	err := RootCmd.Execute()
	return out.String(), errOut.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PAIR_ASSESSMENT_ID", "")
	t.Setenv("PAIR_ASSESSMENT_DB", "")
	t.Setenv("PAIR_ASSESSMENT_LOG_LEVEL", "")
	return filepath.Join(t.TempDir(), "cli.db")
}

func newAssessment(t *testing.T, db string, args ...string) statusView {
	t.Helper()
	out, _, err := run(t, db, append([]string{"new"}, args...)...)
	require.NoError(t, err)
	var v statusView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.NotEmpty(t, v.ID)
	return v
}

func rateAll(t *testing.T, db, id string, p model.Partner, value int) {
	t.Helper()
	args := []string{"score", "--id", id, "--partner", fmt.Sprint(int(p))}
	for _, attr := range catalog.Default().AllAttributeIDs() {
		args = append(args, fmt.Sprintf("%s=%d", attr, value))
	}
	_, _, err := run(t, db, args...)
	require.NoError(t, err)
}

func TestNewAndStatus(t *testing.T) {
	db := setupEnv(t)
	v := newAssessment(t, db, "--p1", "Ana", "--p2", "Ben")
	assert.Equal(t, model.PhaseCollecting, v.Phase)
	assert.Equal(t, "Ana", v.Names.Partner1)
	require.Len(t, v.Partners, 2)
	assert.Equal(t, 30, v.Partners[0].Total)

	out, _, err := run(t, db, "status", "--id", v.ID)
	require.NoError(t, err)
	var got statusView
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, "Ben", got.Names.Partner2)
}

func TestStatusNeedsID(t *testing.T) {
	db := setupEnv(t)
	_, _, err := run(t, db, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no assessment id")
}

func TestStatusUnknownID(t *testing.T) {
	db := setupEnv(t)
	_, _, err := run(t, db, "status", "--id", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestIDFromEnv(t *testing.T) {
	db := setupEnv(t)
	v := newAssessment(t, db)
	t.Setenv("PAIR_ASSESSMENT_ID", v.ID)

	_, _, err := run(t, db, "score", "--partner", "1", "h1=3")
	require.NoError(t, err)
}

func TestScoreParsingAndValidation(t *testing.T) {
	db := setupEnv(t)
	v := newAssessment(t, db)

	tests := []struct {
		name string
		args []string
	}{
		{"missing equals", []string{"h1"}},
		{"non integer", []string{"h1=high"}},
		{"out of range", []string{"h1=6"}},
		{"unknown attribute", []string{"zz=3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"score", "--id", v.ID, "--partner", "1"}, tt.args...)
			_, _, err := run(t, db, args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, session.ErrInvalidInput), err)
		})
	}

	_, _, err := run(t, db, "score", "--id", v.ID, "--partner", "3", "h1=2")
	assert.True(t, errors.Is(err, session.ErrInvalidInput), err)

	out, _, err := run(t, db, "score", "--id", v.ID, "--partner", "2", "h1=2", "h2=5")
	require.NoError(t, err)
	var prog model.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &prog))
	assert.Equal(t, 2, prog.Rated)
	assert.False(t, prog.Complete)
}

func TestScoreRejectsWholeCommand(t *testing.T) {
	db := setupEnv(t)
	v := newAssessment(t, db)

	_, _, err := run(t, db, "score", "--id", v.ID, "--partner", "1", "h1=4", "zz=3")
	assert.True(t, errors.Is(err, session.ErrInvalidInput), err)
	_, _, err = run(t, db, "score", "--id", v.ID, "--partner", "1", "h1=4", "h2=9")
	assert.True(t, errors.Is(err, session.ErrInvalidInput), err)

	out, _, err := run(t, db, "status", "--id", v.ID)
	require.NoError(t, err)
	var st statusView
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 0, st.Partners[0].Rated)
}

func TestFullFlow(t *testing.T) {
	db := setupEnv(t)
	v := newAssessment(t, db, "--p1", "Ana", "--p2", "Ben")

	_, _, err := run(t, db, "complete", "--id", v.ID, "--partner", "1")
	assert.True(t, errors.Is(err, session.ErrPreconditionFailed), err)

	rateAll(t, db, v.ID, model.Partner1, 5)
	rateAll(t, db, v.ID, model.Partner2, 4)
	ef := []string{"score", "--id", v.ID, "--partner", "2"}
	for _, id := range catalog.Default().AttributeIDsOf("Executive Function") {
		ef = append(ef, id+"=2")
	}
	_, _, err = run(t, db, ef...)
	require.NoError(t, err)

	_, _, err = run(t, db, "reveal", "--id", v.ID)
	assert.True(t, errors.Is(err, session.ErrPreconditionFailed), err)

	_, _, err = run(t, db, "complete", "--id", v.ID, "--partner", "1")
	require.NoError(t, err)
	out, _, err := run(t, db, "complete", "--id", v.ID, "--partner", "2")
	require.NoError(t, err)
	var st statusView
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, model.PhaseResultsHidden, st.Phase)
	assert.True(t, st.CanReveal)

	_, _, err = run(t, db, "report", "--id", v.ID)
	assert.True(t, errors.Is(err, session.ErrPreconditionFailed), err)

	_, _, err = run(t, db, "reveal", "--id", v.ID)
	require.NoError(t, err)

	out, _, err = run(t, db, "report", "--id", v.ID)
	require.NoError(t, err)
	var rep scoring.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Categories, 5)
	require.Len(t, rep.Insights, 5)
	for _, in := range rep.Insights {
		if in.Category == "Executive Function" {
			// 5.0 vs 2.0: Ben struggles less and leads
			assert.Equal(t, model.InsightComplementary, in.Kind)
			assert.Equal(t, model.Partner2, in.Lead)
			assert.True(t, strings.HasPrefix(in.Body, "Ben handles this significantly better."), in.Body)
			continue
		}
		assert.Equal(t, model.InsightDanger, in.Kind, in.Category)
		assert.True(t, strings.HasPrefix(in.Body, "You both struggle severely here."), in.Body)
		assert.NotContains(t, in.Body, "Ana")
	}
	assert.Len(t, rep.Contract, 3)

	out, _, err = run(t, db, "hide", "--id", v.ID)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, model.PhaseResultsHidden, st.Phase)

	_, _, err = run(t, db, "hide", "--id", v.ID)
	assert.True(t, errors.Is(err, session.ErrPreconditionFailed), err)
}

func TestReset(t *testing.T) {
	db := setupEnv(t)
	v := newAssessment(t, db, "--p1", "Ana", "--p2", "Ben")
	_, _, err := run(t, db, "score", "--id", v.ID, "--partner", "1", "h1=4")
	require.NoError(t, err)

	out, _, err := run(t, db, "reset", "--id", v.ID)
	require.NoError(t, err)
	var st statusView
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.NotEqual(t, v.ID, st.ID)
	assert.Equal(t, model.PhaseCollecting, st.Phase)
	assert.Equal(t, 0, st.Partners[0].Rated)
	assert.Empty(t, st.Names.Partner1)

	// the previous assessment is untouched
	out, _, err = run(t, db, "status", "--id", v.ID)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 1, st.Partners[0].Rated)
}

func TestNames(t *testing.T) {
	db := setupEnv(t)
	v := newAssessment(t, db)

	_, _, err := run(t, db, "names", "--id", v.ID, strings.Repeat("x", 31), "Ben")
	assert.True(t, errors.Is(err, session.ErrInvalidInput), err)

	out, _, err := run(t, db, "names", "--id", v.ID, " Ana ", "Ben", "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Ben")
}

func TestCatalogFormats(t *testing.T) {
	db := setupEnv(t)

	out, _, err := run(t, db, "catalog")
	require.NoError(t, err)
	var v catalogView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Len(t, v.Categories, 5)
	assert.Len(t, v.Scale, 5)

	out, _, err = run(t, db, "catalog", "-f", "yaml")
	require.NoError(t, err)
	var y catalogView
	require.NoError(t, yaml.Unmarshal([]byte(out), &y))
	assert.Equal(t, v, y)

	out, _, err = run(t, db, "catalog", "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "h1")
	assert.Contains(t, out, "SCALE")

	_, _, err = run(t, db, "catalog", "-f", "xml")
	assert.Error(t, err)
}

func TestListStatsExportImport(t *testing.T) {
	db := setupEnv(t)
	a := newAssessment(t, db, "--p1", "Ana", "--p2", "Ben")
	newAssessment(t, db)
	_, _, err := run(t, db, "score", "--id", a.ID, "--partner", "2", "s1=2")
	require.NoError(t, err)

	out, _, err := run(t, db, "list", "--ids-only")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 2)
	assert.Contains(t, out, a.ID)

	out, _, err = run(t, db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_assessments": 2`)

	out, _, err = run(t, db, "export", "--id", a.ID)
	require.NoError(t, err)
	var exported []model.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Len(t, exported, 1)
	assert.Len(t, exported[0].Scores, 1)

	file := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(file, []byte(out), 0o644))

	other := filepath.Join(t.TempDir(), "other.db")
	out, _, err = run(t, other, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, `"imported":1`)

	out, _, err = run(t, other, "status", "--id", a.ID)
	require.NoError(t, err)
	var st statusView
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "Ana", st.Names.Partner1)
	assert.Equal(t, 1, st.Partners[1].Rated)
}
