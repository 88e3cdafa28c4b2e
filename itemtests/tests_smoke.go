package itemtests

import (
	"net/http"
	"time"

	"github.com/apisut/items-contract-tests/itemapi"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoSmokeTests is a quick pass over every endpoint: one happy-path request
// each, just enough to prove the service is up and worth testing further.
func DoSmokeTests(t *T) {
	t.Run("root endpoint responds", func(t *T) {
		resp := t.Get("/")
		t.RequireStatus(resp, http.StatusOK)
		body := t.RequireJSON(resp)
		message, ok := body.TryGetByKey("message")
		require.True(t, ok, `root response had no "message" property`)
		require.Contains(t, message.StringValue(), "API-SUT")
	})

	t.Run("health endpoint responds", func(t *T) {
		resp := t.Get("/health")
		t.RequireStatus(resp, http.StatusOK)
		message := t.RequireJSON(resp).GetByKey("message").StringValue()
		require.Contains(t, message, "healthy")
	})

	t.Run("interactive docs are served", func(t *T) {
		resp := t.Get("/docs")
		t.RequireStatus(resp, http.StatusOK)
		require.Contains(t, resp.ContentType(), "text/html")
	})

	t.Run("openapi schema is served", func(t *T) {
		resp := t.Get("/openapi.json")
		t.RequireStatus(resp, http.StatusOK)
		body := t.RequireJSON(resp)
		_, ok := body.TryGetByKey("openapi")
		require.True(t, ok, `schema had no "openapi" property`)
		info, ok := body.TryGetByKey("info")
		require.True(t, ok, `schema had no "info" property`)
		require.Equal(t, "API-SUT", info.GetByKey("title").StringValue())
	})

	t.Run("items can be listed", func(t *T) {
		resp := t.Get(itemsPath)
		t.RequireStatus(resp, http.StatusOK)
		body := t.RequireJSON(resp)
		require.Equal(t, ldvalue.ArrayType, body.Type(), "expected a JSON array")
	})

	t.Run("demo data is present", func(t *T) {
		items := t.ListItems()
		require.NotEmpty(t, items, "expected the service to start with demo items")
	})

	t.Run("an item can be fetched by ID", func(t *T) {
		items := t.ListItems()
		require.NotEmpty(t, items)
		item := t.GetItem(items[0].ID)
		require.Equal(t, items[0].ID, item.ID)
		require.NotEmpty(t, item.Name)
	})

	t.Run("an item can be created", func(t *T) {
		item := t.CreateTestItem(itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Smoke Test Item")).
			Set("description", ldvalue.String("Created during smoke testing")).
			Set("price", ldvalue.Float64(9.99)).
			Set("quantity", ldvalue.Int(10)))
		require.NotZero(t, item.ID)
	})

	t.Run("an item can be updated", func(t *T) {
		item := t.CreateTestItem(itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Item to Update")).
			Set("price", ldvalue.Float64(15.00)).
			Set("quantity", ldvalue.Int(5)))
		updated := t.UpdateItem(item.ID, itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Updated Smoke Test Item")).
			Set("price", ldvalue.Float64(20.00)).
			Set("quantity", ldvalue.Int(10)))
		require.Equal(t, "Updated Smoke Test Item", updated.Name)
	})

	t.Run("an item can be deleted", func(t *T) {
		item := t.CreateTestItem(itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Item to Delete")).
			Set("price", ldvalue.Float64(5.00)).
			Set("quantity", ldvalue.Int(1)))
		t.DeleteItem(item.ID)
	})

	t.Run("list contains a created item", func(t *T) {
		item := t.CreateTestItem(itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Smoke Test Item")).
			Set("price", ldvalue.Float64(9.99)).
			Set("quantity", ldvalue.Int(10)))
		ids := make([]int, 0)
		for _, listed := range t.ListItems() {
			ids = append(ids, listed.ID)
		}
		require.Contains(t, ids, item.ID)
	})

	t.Run("list responses are JSON", func(t *T) {
		resp := t.Get(itemsPath)
		t.RequireStatus(resp, http.StatusOK)
		require.Contains(t, resp.ContentType(), "application/json")
	})

	t.Run("list responds promptly", func(t *T) {
		started := time.Now()
		resp := t.Get(itemsPath)
		elapsed := time.Since(started)
		t.RequireStatus(resp, http.StatusOK)
		require.Lessf(t, elapsed, 2*time.Second, "list took %s", elapsed)
	})
}
