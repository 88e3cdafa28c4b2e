package itemtests

import (
	"github.com/apisut/items-contract-tests/client"
	"github.com/apisut/items-contract-tests/framework"
)

// RunTestSuite runs all of the test groups against the service that
// apiClient points at, and returns the results.
func RunTestSuite(
	apiClient *client.APIClient,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, apiClient)

		// Each group stands alone: any items it needs, it creates and
		// cleans up itself, so a filter can select any subset.
		t.Run("smoke", DoSmokeTests)
		t.Run("positive", DoPositiveTests)
		t.Run("negative", DoNegativeTests)
		t.Run("validation", DoValidationTests)
	})
}
