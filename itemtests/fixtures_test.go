package itemtests

import (
	"fmt"
	"testing"

	"github.com/apisut/items-contract-tests/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestValidItemPayloadHasEveryField(t *testing.T) {
	v := ValidItemPayload().Build()
	assert.Equal(t, "Test Item", v.GetByKey("name").StringValue())
	assert.Equal(t, "A test item for automated testing", v.GetByKey("description").StringValue())
	assert.Equal(t, 19.99, v.GetByKey("price").Float64Value())
	assert.Equal(t, 50, v.GetByKey("quantity").IntValue())
}

func TestMinimalValidPayloadOmitsOptionalFields(t *testing.T) {
	v := MinimalValidPayload().Build()
	assert.Equal(t, 3, v.Count())
	_, ok := v.TryGetByKey("description")
	assert.False(t, ok)
}

func TestSampleItemsAreDistinct(t *testing.T) {
	samples := SampleItems()
	require.Len(t, samples, 3)
	names := make(map[string]bool)
	for _, s := range samples {
		names[s.Build().GetByKey("name").StringValue()] = true
	}
	assert.Len(t, names, 3)
}

func TestFixtureBuildersAreIndependent(t *testing.T) {
	first := ValidItemPayload().Set("name", ldvalue.String("changed"))
	second := ValidItemPayload()
	assert.Equal(t, "changed", first.Build().GetByKey("name").StringValue())
	assert.Equal(t, "Test Item", second.Build().GetByKey("name").StringValue())
}

func TestCreateTestItemCleansUpWhenScopeEnds(t *testing.T) {
	_, apiClient := startTestService(t)

	var createdID int
	results := framework.Run(nil, nil, func(c *framework.Context) {
		scope := newTestScope(c, apiClient)
		scope.Run("creates an item", func(scope *T) {
			createdID = scope.CreateTestItem(ValidItemPayload()).ID
		})
	})
	require.True(t, results.OK(), "unexpected failures:\n%s", failureReport(results))
	require.NotZero(t, createdID)
	assert.Empty(t, results.CleanupFailures())

	resp, err := apiClient.Get(fmt.Sprintf("/items/%d", createdID))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Status, "created item was not cleaned up")
}

func TestCreateTestItemToleratesDeletionByTheTest(t *testing.T) {
	_, apiClient := startTestService(t)

	results := framework.Run(nil, nil, func(c *framework.Context) {
		scope := newTestScope(c, apiClient)
		scope.Run("deletes its own item", func(scope *T) {
			item := scope.CreateTestItem(ValidItemPayload())
			scope.DeleteItem(item.ID)
		})
	})
	require.True(t, results.OK(), "unexpected failures:\n%s", failureReport(results))
	assert.Empty(t, results.CleanupFailures())
}

type cleanupErrorLogger struct {
	reported []string
}

func (l *cleanupErrorLogger) TestStarted(framework.TestID)                                  {}
func (l *cleanupErrorLogger) TestError(framework.TestID, error)                             {}
func (l *cleanupErrorLogger) TestFinished(framework.TestID, bool, framework.CapturedOutput) {}
func (l *cleanupErrorLogger) TestSkipped(framework.TestID, string)                          {}
func (l *cleanupErrorLogger) TestCleanupError(id framework.TestID, err error) {
	l.reported = append(l.reported, fmt.Sprintf("%s: %s", id, err))
}

func TestCleanupFailureIsSurfacedWithoutFailingTheTest(t *testing.T) {
	service, apiClient := startTestService(t)
	service.FailDeletes = true

	logger := &cleanupErrorLogger{}
	results := framework.Run(nil, logger, func(c *framework.Context) {
		scope := newTestScope(c, apiClient)
		scope.Run("creates an item", func(scope *T) {
			scope.CreateTestItem(ValidItemPayload())
		})
	})

	assert.True(t, results.OK(), "a cleanup failure must not fail the test")
	failures := results.CleanupFailures()
	require.Len(t, failures, 1)
	assert.Equal(t, "creates an item", failures[0].TestID.String())

	require.Len(t, logger.reported, 1)
	assert.Contains(t, logger.reported[0], "unexpected status 500")
}
