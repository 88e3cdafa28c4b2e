package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/apisut/items-contract-tests/framework"

	"github.com/fatih/color"
)

var (
	failedColor  = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
	warningColor = color.New(color.FgYellow)
)

// ConsoleTestLogger reports test progress on standard output as the suite
// runs. Debug output (the HTTP traffic of each test) is shown according to
// the DebugOutput flags.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Printf("[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		_, _ = failedColor.Printf("  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		_, _ = skippedColor.Printf("  SKIPPED: %s\n", id)
	} else {
		_, _ = skippedColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}

func (c *ConsoleTestLogger) TestCleanupError(id framework.TestID, err error) {
	_, _ = warningColor.Printf("  WARNING: cleanup failed: %s\n", err)
}
