package framework

import (
	"encoding/json"
	"io/ioutil"
	"time"
)

// Report is the machine-readable form of a test run, written as JSON when an
// output file is requested on the command line.
type Report struct {
	RunID    string         `json:"runId"`
	Time     string         `json:"time"`
	Tests    int            `json:"tests"`
	Failures int            `json:"failures"`
	Results  []ReportResult `json:"results"`
}

type ReportResult struct {
	ID            string   `json:"id"`
	Failed        bool     `json:"failed,omitempty"`
	Errors        []string `json:"errors,omitempty"`
	CleanupErrors []string `json:"cleanupErrors,omitempty"`
}

func NewReport(results Results, runID string) Report {
	report := Report{
		RunID:    runID,
		Time:     time.Now().Format(time.RFC3339),
		Tests:    len(results.Tests),
		Failures: len(results.Failures),
	}
	for _, t := range results.Tests {
		report.Results = append(report.Results, ReportResult{
			ID:            t.TestID.String(),
			Failed:        len(t.Errors) > 0,
			Errors:        errorStrings(t.Errors),
			CleanupErrors: errorStrings(t.CleanupErrors),
		})
	}
	return report
}

// WriteReportFile writes the JSON report for a completed run to path.
func WriteReportFile(results Results, runID string, path string) error {
	data, err := json.MarshalIndent(NewReport(results, runID), "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, append(data, '\n'), 0644)
}

func errorStrings(errs []error) []string {
	var ret []string
	for _, err := range errs {
		ret = append(ret, err.Error())
	}
	return ret
}
