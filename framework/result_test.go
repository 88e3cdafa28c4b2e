package framework

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestIDString(t *testing.T) {
	assert.Equal(t, "", TestID{}.String())
	assert.Equal(t, "items", TestID{Path: []string{"items"}}.String())
	assert.Equal(t, "positive/create/echoes fields",
		TestID{Path: []string{"positive", "create", "echoes fields"}}.String())
}

func TestTestIDChildrenAreIndependent(t *testing.T) {
	parent := TestID{Path: []string{"group"}}
	a := parent.child("first")
	b := parent.child("second")
	assert.Equal(t, "group/first", a.String())
	assert.Equal(t, "group/second", b.String())
	assert.Equal(t, "group", parent.String())
}

func TestResultsOK(t *testing.T) {
	assert.True(t, Results{}.OK())
	assert.True(t, Results{Tests: []TestResult{{}}}.OK())
	assert.False(t, Results{Failures: []TestResult{{}}}.OK())
}

func TestResultsCleanupFailures(t *testing.T) {
	results := Results{
		Tests: []TestResult{
			{TestID: TestID{Path: []string{"clean"}}},
			{TestID: TestID{Path: []string{"leaky"}}, CleanupErrors: []error{errors.New("leak")}},
		},
	}
	failures := results.CleanupFailures()
	require.Len(t, failures, 1)
	assert.Equal(t, "leaky", failures[0].TestID.String())
}

func makeReportableResults() Results {
	results := Results{
		Tests: []TestResult{
			{TestID: TestID{Path: []string{"smoke", "passes"}}},
			{TestID: TestID{Path: []string{"smoke", "fails"}},
				Errors: []error{errors.New("expected 200, got 500")}},
			{TestID: TestID{Path: []string{"smoke", "leaks"}},
				CleanupErrors: []error{errors.New("deleting item 3: status 500")}},
		},
	}
	results.Failures = []TestResult{results.Tests[1]}
	return results
}

func TestNewReport(t *testing.T) {
	report := NewReport(makeReportableResults(), "run-123")

	assert.Equal(t, "run-123", report.RunID)
	assert.Equal(t, 3, report.Tests)
	assert.Equal(t, 1, report.Failures)
	_, err := time.Parse(time.RFC3339, report.Time)
	assert.NoError(t, err)

	require.Len(t, report.Results, 3)

	assert.Equal(t, "smoke/passes", report.Results[0].ID)
	assert.False(t, report.Results[0].Failed)
	assert.Len(t, report.Results[0].Errors, 0)

	assert.Equal(t, "smoke/fails", report.Results[1].ID)
	assert.True(t, report.Results[1].Failed)
	assert.Equal(t, []string{"expected 200, got 500"}, report.Results[1].Errors)

	assert.Equal(t, "smoke/leaks", report.Results[2].ID)
	assert.False(t, report.Results[2].Failed)
	assert.Equal(t, []string{"deleting item 3: status 500"}, report.Results[2].CleanupErrors)
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReportFile(makeReportableResults(), "run-456", path))

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "run-456", report.RunID)
	assert.Equal(t, 3, report.Tests)
	assert.Equal(t, 1, report.Failures)
	require.Len(t, report.Results, 3)
	assert.Equal(t, "smoke/fails", report.Results[1].ID)
	assert.True(t, report.Results[1].Failed)

	// passing tests serialize without failure fields
	var raw struct {
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.Results, 3)
	assert.NotContains(t, raw.Results[0], "failed")
	assert.NotContains(t, raw.Results[0], "errors")
	assert.Contains(t, raw.Results[1], "failed")
	assert.Contains(t, raw.Results[2], "cleanupErrors")
}
