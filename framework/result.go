package framework

import (
	"fmt"
	"strings"
)

// Results accumulates the outcome of every test that ran. Failures is always
// a subset of Tests.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID        TestID
	Errors        []error
	CleanupErrors []error
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// CleanupFailures returns the results of tests whose registered cleanups
// failed. These tests may have passed; the errors mean resources created for
// them could not be released.
func (r Results) CleanupFailures() []TestResult {
	var ret []TestResult
	for _, t := range r.Tests {
		if len(t.CleanupErrors) > 0 {
			ret = append(ret, t)
		}
	}
	return ret
}

// TestID identifies a test as the path of subtest names leading to it.
type TestID struct {
	Path []string
}

// child derives a subtest ID. The path is copied so sibling subtests cannot
// share backing storage.
func (t TestID) child(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	path = append(path, name)
	return TestID{Path: path}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// PrintResults writes a human-readable summary of a test run to standard
// output: totals, the IDs of failed tests, and any cleanup failures.
func PrintResults(results Results) {
	fmt.Printf("Ran %d tests\n", len(results.Tests))
	if results.OK() {
		fmt.Println("All tests passed")
	} else {
		fmt.Printf("FAILED %d tests:\n", len(results.Failures))
		for _, f := range results.Failures {
			fmt.Printf("  %s\n", f.TestID)
		}
	}
	if leaked := results.CleanupFailures(); len(leaked) > 0 {
		fmt.Printf("WARNING: cleanup failed in %d test(s); resources may have leaked:\n", len(leaked))
		for _, t := range leaked {
			for _, err := range t.CleanupErrors {
				fmt.Printf("  [%s] %s\n", t.TestID, err)
			}
		}
	}
}
