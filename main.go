package main

import (
	"fmt"
	"log"
	"os"

	"github.com/apisut/items-contract-tests/client"
	"github.com/apisut/items-contract-tests/config"
	"github.com/apisut/items-contract-tests/framework"
	"github.com/apisut/items-contract-tests/itemtests"

	"github.com/google/uuid"
)

const commandName = "items-contract-tests"

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err == nil {
		err = params.applyTo(&cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	apiClient := client.New(cfg, mainDebugLogger)

	runID := uuid.NewString()
	fmt.Println()
	fmt.Printf("Test run %s\n", runID)
	fmt.Printf("Equivalent command: %s\n", params.describeCommand(cfg))

	fmt.Printf("Waiting for service at %s", cfg.BaseURL)
	if err := apiClient.WaitUntilReady(cfg.StartupTimeout, os.Stdout); err != nil {
		fmt.Println()
		fmt.Fprintf(os.Stderr, "Service error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(" ready")

	fmt.Println()
	framework.PrintFilterDescription(params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := itemtests.RunTestSuite(apiClient, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(results)

	if params.outputPath != "" {
		if err := framework.WriteReportFile(results, runID, params.outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote test report to %s\n", params.outputPath)
	}

	if !results.OK() {
		os.Exit(1)
	}
}
