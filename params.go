package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apisut/items-contract-tests/config"
	"github.com/apisut/items-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	baseURL        string
	filters        framework.RegexFilters
	debug          bool
	debugAll       bool
	outputPath     string
	requestTimeout time.Duration
	startupTimeout time.Duration
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.baseURL, "url", "", "base URL of the service under test (overrides API_BASE_URL)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.StringVar(&c.outputPath, "output", "", "file path to write a JSON report to")
	fs.DurationVar(&c.requestTimeout, "timeout", 0, "HTTP request timeout (overrides API_REQUEST_TIMEOUT)")
	fs.DurationVar(&c.startupTimeout, "wait", 0, "how long to wait for the service to come up (overrides API_STARTUP_TIMEOUT)")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

// applyTo layers the command-line overrides onto a configuration resolved
// from the environment.
func (c commandParams) applyTo(cfg *config.Config) error {
	if c.baseURL != "" {
		if err := cfg.SetBaseURL(c.baseURL); err != nil {
			return err
		}
	}
	if c.requestTimeout > 0 {
		cfg.RequestTimeout = c.requestTimeout
	}
	if c.startupTimeout > 0 {
		cfg.StartupTimeout = c.startupTimeout
	}
	return nil
}

// describeCommand reconstructs an equivalent command line for the effective
// configuration, so the exact settings of a run can be reproduced from its
// output.
func (c commandParams) describeCommand(cfg config.Config) string {
	var b commandBuilder
	b.add(commandName)
	b.add("-url", cfg.BaseURL)
	b.add("-timeout", cfg.RequestTimeout.String())
	if c.filters.MustMatch.IsDefined() {
		b.add("-run", c.filters.MustMatch.String())
	}
	if c.filters.MustNotMatch.IsDefined() {
		b.add("-skip", c.filters.MustNotMatch.String())
	}
	if c.outputPath != "" {
		b.add("-output", c.outputPath)
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
