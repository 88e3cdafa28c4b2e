package itemtests

import (
	"net/http"
	"time"

	"github.com/apisut/items-contract-tests/itemapi"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoPositiveTests verifies the documented happy-path behavior of each
// operation: what a well-formed request returns, and what it leaves behind.
func DoPositiveTests(t *T) {
	t.Run("list items", doListItemsTests)
	t.Run("get item", doGetItemTests)
	t.Run("create item", doCreateItemTests)
	t.Run("update item", doUpdateItemTests)
	t.Run("delete item", doDeleteItemTests)
	t.Run("service info", doServiceInfoTests)
}

func doListItemsTests(t *T) {
	t.Run("returns a list", func(t *T) {
		resp := t.Get(itemsPath)
		t.RequireStatus(resp, http.StatusOK)
		t.RequireItemList(resp)
	})

	t.Run("includes the demo items", func(t *T) {
		names := make([]string, 0)
		for _, item := range t.ListItems() {
			names = append(names, item.Name)
		}
		require.Contains(t, names, "Wireless Mouse")
	})

	t.Run("items carry all expected properties", func(t *T) {
		resp := t.Get(itemsPath)
		t.RequireStatus(resp, http.StatusOK)
		list := t.RequireJSON(resp)
		require.NotZero(t, list.Count())
		first := list.GetByIndex(0)
		for _, key := range []string{"id", "name", "price", "quantity", "created_at", "updated_at"} {
			_, ok := first.TryGetByKey(key)
			require.Truef(t, ok, "listed item had no %q property", key)
		}
	})
}

func doGetItemTests(t *T) {
	t.Run("returns the item that was created", func(t *T) {
		created := t.CreateTestItem(ValidItemPayload())
		item := t.GetItem(created.ID)
		require.Equal(t, created.ID, item.ID)
		require.Equal(t, created.Name, item.Name)
		require.Equal(t, created.Price, item.Price)
	})

	t.Run("returns every property", func(t *T) {
		created := t.CreateTestItem(ValidItemPayload())
		resp := t.Get(itemPath(created.ID))
		t.RequireStatus(resp, http.StatusOK)
		body := t.RequireJSON(resp)
		for _, key := range []string{"id", "name", "description", "price", "quantity", "created_at", "updated_at"} {
			_, ok := body.TryGetByKey(key)
			require.Truef(t, ok, "item had no %q property", key)
		}
	})

	t.Run("responds with JSON content type", func(t *T) {
		created := t.CreateTestItem(ValidItemPayload())
		resp := t.Get(itemPath(created.ID))
		t.RequireStatus(resp, http.StatusOK)
		require.Contains(t, resp.ContentType(), "application/json")
	})
}

func doCreateItemTests(t *T) {
	t.Run("echoes the submitted fields", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		require.Equal(t, "Test Item", item.Name)
		require.Equal(t, 19.99, item.Price)
	})

	t.Run("omitted description becomes null", func(t *T) {
		item := t.CreateTestItem(MinimalValidPayload())
		require.False(t, item.Description.IsDefined(), "expected a null description, got %q",
			item.Description.StringValue())
	})

	t.Run("sets both timestamps", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		require.NotEmpty(t, item.CreatedAt)
		require.NotEmpty(t, item.UpdatedAt)
	})

	t.Run("assigns unique IDs", func(t *T) {
		first := t.CreateTestItem(ValidItemPayload())
		second := t.CreateTestItem(ValidItemPayload())
		require.NotEqual(t, first.ID, second.ID)
	})

	t.Run("accepts an explicit null description", func(t *T) {
		item := t.CreateTestItem(itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Item with null description")).
			Set("description", ldvalue.Null()).
			Set("price", ldvalue.Float64(10.00)).
			Set("quantity", ldvalue.Int(5)))
		require.False(t, item.Description.IsDefined())
	})

	t.Run("accepts zero quantity", func(t *T) {
		item := t.CreateTestItem(itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Out of stock item")).
			Set("price", ldvalue.Float64(50.00)).
			Set("quantity", ldvalue.Int(0)))
		require.Equal(t, 0, item.Quantity)
	})

	t.Run("preserves the exact price", func(t *T) {
		item := t.CreateTestItem(itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Precise price item")).
			Set("price", ldvalue.Float64(19.99)).
			Set("quantity", ldvalue.Int(1)))
		require.Equal(t, 19.99, item.Price)
	})
}

func doUpdateItemTests(t *T) {
	updatePayload := func() *itemapi.PayloadBuilder {
		return itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Updated Name")).
			Set("description", ldvalue.String("Updated description")).
			Set("price", ldvalue.Float64(99.99)).
			Set("quantity", ldvalue.Int(999))
	}

	t.Run("returns the updated fields", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		updated := t.UpdateItem(item.ID, updatePayload())
		require.Equal(t, "Updated Name", updated.Name)
		require.Equal(t, "Updated description", updated.Description.StringValue())
		require.Equal(t, 99.99, updated.Price)
		require.Equal(t, 999, updated.Quantity)
	})

	t.Run("preserves the item ID", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		updated := t.UpdateItem(item.ID, updatePayload())
		require.Equal(t, item.ID, updated.ID)
	})

	t.Run("preserves the creation timestamp", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		updated := t.UpdateItem(item.ID, updatePayload())
		require.Equal(t, item.CreatedAt, updated.CreatedAt)
	})

	t.Run("refreshes the update timestamp", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		// timestamps have sub-second precision, so a short pause is enough
		// to observe a change
		time.Sleep(time.Millisecond * 100)
		updated := t.UpdateItem(item.ID, updatePayload())
		require.NotEqual(t, item.UpdatedAt, updated.UpdatedAt)
	})

	t.Run("persists across a re-read", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		t.UpdateItem(item.ID, itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("Persisted Update")).
			Set("price", ldvalue.Float64(77.77)).
			Set("quantity", ldvalue.Int(77)))
		fetched := t.GetItem(item.ID)
		require.Equal(t, "Persisted Update", fetched.Name)
		require.Equal(t, 77.77, fetched.Price)
		require.Equal(t, 77, fetched.Quantity)
	})
}

func doDeleteItemTests(t *T) {
	t.Run("returns 204 with no body", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		t.DeleteItem(item.ID)
	})

	t.Run("deleted items are gone", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		t.DeleteItem(item.ID)
		t.RequireNotFound(t.Get(itemPath(item.ID)))
	})

	t.Run("does not affect other items", func(t *T) {
		samples := SampleItems()
		first := t.CreateTestItem(samples[0])
		second := t.CreateTestItem(samples[1])
		t.DeleteItem(first.ID)
		kept := t.GetItem(second.ID)
		require.Equal(t, "Sample Item 2", kept.Name)
	})
}

func doServiceInfoTests(t *T) {
	t.Run("health message is meaningful", func(t *T) {
		resp := t.Get("/health")
		t.RequireStatus(resp, http.StatusOK)
		message := t.RequireJSON(resp).GetByKey("message").StringValue()
		require.NotEmpty(t, message)
	})

	t.Run("root message welcomes", func(t *T) {
		resp := t.Get("/")
		t.RequireStatus(resp, http.StatusOK)
		message := t.RequireJSON(resp).GetByKey("message").StringValue()
		require.Contains(t, message, "Welcome")
	})
}
