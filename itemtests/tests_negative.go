package itemtests

import (
	"net/http"

	"github.com/apisut/items-contract-tests/itemapi"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoNegativeTests verifies that malformed or impossible requests are turned
// away with the right status and a usable error body, and that failed
// requests leave no trace behind.
func DoNegativeTests(t *T) {
	t.Run("get errors", doGetErrorTests)
	t.Run("create errors", doCreateErrorTests)
	t.Run("update errors", doUpdateErrorTests)
	t.Run("delete errors", doDeleteErrorTests)
	t.Run("method not allowed", doMethodNotAllowedTests)
	t.Run("unknown routes", doUnknownRouteTests)
	t.Run("content type handling", doContentTypeTests)
}

func doGetErrorTests(t *T) {
	t.Run("nonexistent ID returns 404", func(t *T) {
		t.RequireNotFound(t.Get("/items/999999"))
	})

	t.Run("ID zero returns 404", func(t *T) {
		t.RequireNotFound(t.Get("/items/0"))
	})

	t.Run("negative ID is rejected", func(t *T) {
		t.RequireStatusIn(t.Get("/items/-1"), http.StatusNotFound, http.StatusUnprocessableEntity)
	})

	t.Run("non-numeric ID returns 422", func(t *T) {
		t.RequireValidationError(t.Get("/items/abc"))
	})

	t.Run("decimal ID returns 422", func(t *T) {
		t.RequireValidationError(t.Get("/items/1.5"))
	})

	t.Run("deleted item returns 404", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		t.DeleteItem(item.ID)
		t.RequireNotFound(t.Get(itemPath(item.ID)))
	})
}

func doCreateErrorTests(t *T) {
	t.Run("no body returns 422", func(t *T) {
		t.RequireValidationError(t.PostNoBody(itemsPath))
	})

	t.Run("empty object returns 422", func(t *T) {
		resp := t.Post(itemsPath, itemapi.NewPayloadBuilder().Build())
		t.RequireValidationError(resp, "name", "price", "quantity")
	})

	for _, params := range []struct {
		desc  string
		field string
	}{
		{"missing name", "name"},
		{"missing price", "price"},
		{"missing quantity", "quantity"},
	} {
		params := params
		t.Run(params.desc+" returns 422", func(t *T) {
			resp := t.Post(itemsPath, ValidItemPayload().Omit(params.field).Build())
			t.RequireValidationError(resp, params.field)
		})
	}

	t.Run("zero price returns 422", func(t *T) {
		resp := t.Post(itemsPath, ValidItemPayload().Set("price", ldvalue.Int(0)).Build())
		t.RequireValidationError(resp, "price")
	})

	t.Run("negative price returns 422", func(t *T) {
		resp := t.Post(itemsPath, ValidItemPayload().Set("price", ldvalue.Float64(-10.00)).Build())
		t.RequireValidationError(resp, "price")
	})

	t.Run("negative quantity returns 422", func(t *T) {
		resp := t.Post(itemsPath, ValidItemPayload().Set("quantity", ldvalue.Int(-5)).Build())
		t.RequireValidationError(resp, "quantity")
	})

	for _, params := range []struct {
		desc  string
		field string
		value ldvalue.Value
	}{
		{"string price", "price", ldvalue.String("ten dollars")},
		{"string quantity", "quantity", ldvalue.String("five")},
		{"list name", "name", ldvalue.ArrayOf(ldvalue.String("Item1"), ldvalue.String("Item2"))},
		{"object name", "name", ldvalue.ObjectBuild().Set("first", ldvalue.String("Item")).Build()},
	} {
		params := params
		t.Run(params.desc+" returns 422", func(t *T) {
			resp := t.Post(itemsPath, ValidItemPayload().Set(params.field, params.value).Build())
			t.RequireValidationError(resp, params.field)
		})
	}

	t.Run("error detail is a list", func(t *T) {
		resp := t.Post(itemsPath, itemapi.NewPayloadBuilder().Build())
		t.RequireStatus(resp, http.StatusUnprocessableEntity)
		detail := t.RequireJSON(resp).GetByKey("detail")
		require.Equal(t, ldvalue.ArrayType, detail.Type())
	})
}

func doUpdateErrorTests(t *T) {
	t.Run("nonexistent ID returns 404", func(t *T) {
		t.RequireNotFound(t.Put("/items/999999", ValidItemPayload().Build()))
	})

	t.Run("no body returns 422", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		t.RequireValidationError(t.PutNoBody(itemPath(item.ID)))
	})

	t.Run("empty object returns 422", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		resp := t.Put(itemPath(item.ID), itemapi.NewPayloadBuilder().Build())
		t.RequireValidationError(resp, "name", "price", "quantity")
	})

	t.Run("missing quantity returns 422", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		resp := t.Put(itemPath(item.ID), ValidItemPayload().Omit("quantity").Build())
		t.RequireValidationError(resp, "quantity")
	})

	t.Run("negative price returns 422", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		resp := t.Put(itemPath(item.ID), ValidItemPayload().Set("price", ldvalue.Float64(-10.00)).Build())
		t.RequireValidationError(resp, "price")
	})

	t.Run("non-numeric ID returns 422", func(t *T) {
		t.RequireValidationError(t.Put("/items/abc", ValidItemPayload().Build()))
	})

	t.Run("deleted item returns 404", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		t.DeleteItem(item.ID)
		t.RequireNotFound(t.Put(itemPath(item.ID), ValidItemPayload().Build()))
	})
}

func doDeleteErrorTests(t *T) {
	t.Run("nonexistent ID returns 404", func(t *T) {
		t.RequireNotFound(t.Delete("/items/999999"))
	})

	t.Run("non-numeric ID returns 422", func(t *T) {
		t.RequireValidationError(t.Delete("/items/abc"))
	})

	t.Run("decimal ID returns 422", func(t *T) {
		t.RequireValidationError(t.Delete("/items/1.5"))
	})

	t.Run("second delete returns 404", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		t.DeleteItem(item.ID)
		t.RequireNotFound(t.Delete(itemPath(item.ID)))
	})

	t.Run("ID zero returns 404", func(t *T) {
		t.RequireNotFound(t.Delete("/items/0"))
	})

	t.Run("negative ID is rejected", func(t *T) {
		t.RequireStatusIn(t.Delete("/items/-1"), http.StatusNotFound, http.StatusUnprocessableEntity)
	})
}

func doMethodNotAllowedTests(t *T) {
	t.Run("PATCH on an item", func(t *T) {
		item := t.CreateTestItem(MinimalValidPayload())
		resp := t.Do("PATCH", itemPath(item.ID), "application/json", []byte(`{"name": "Patched Item"}`))
		t.RequireStatus(resp, http.StatusMethodNotAllowed)
	})

	t.Run("POST on an item", func(t *T) {
		item := t.CreateTestItem(MinimalValidPayload())
		resp := t.Post(itemPath(item.ID), ValidItemPayload().Build())
		t.RequireStatus(resp, http.StatusMethodNotAllowed)
	})

	t.Run("PUT on the collection", func(t *T) {
		resp := t.Put(itemsPath, ValidItemPayload().Build())
		t.RequireStatus(resp, http.StatusMethodNotAllowed)
	})

	t.Run("DELETE on the collection", func(t *T) {
		resp := t.Delete(itemsPath)
		t.RequireStatus(resp, http.StatusMethodNotAllowed)
	})
}

func doUnknownRouteTests(t *T) {
	for _, path := range []string{"/nonexistent", "/item", "/items/1/details"} {
		path := path
		t.Run("GET "+path, func(t *T) {
			resp := t.Get(path)
			t.RequireStatus(resp, http.StatusNotFound)
		})
	}
}

func doContentTypeTests(t *T) {
	t.Run("malformed JSON is rejected", func(t *T) {
		resp := t.Do("POST", itemsPath, "application/json", []byte("not valid json"))
		t.RequireValidationError(resp)
	})

	t.Run("JSON with a non-JSON content type is rejected", func(t *T) {
		body := []byte(ValidItemPayload().Build().JSONString())
		resp := t.Do("POST", itemsPath, "text/plain", body)
		t.RequireStatus(resp, http.StatusUnprocessableEntity)
	})
}
