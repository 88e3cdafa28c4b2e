package itemtests

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apisut/items-contract-tests/itemapi"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoValidationTests walks the field-level rules: boundary values on each
// side of every limit, type mismatches, and the shape of what comes back.
func DoValidationTests(t *T) {
	t.Run("name rules", doNameValidationTests)
	t.Run("description rules", doDescriptionValidationTests)
	t.Run("price rules", doPriceValidationTests)
	t.Run("quantity rules", doQuantityValidationTests)
	t.Run("item ID handling", doItemIDHandlingTests)
	t.Run("update semantics", doUpdateSemanticsTests)
	t.Run("response shapes", doResponseShapeTests)
	t.Run("duplicate items", doDuplicateItemTests)
}

func doNameValidationTests(t *T) {
	for _, params := range []struct {
		desc string
		name string
	}{
		{"single character", "A"},
		{"longest allowed", strings.Repeat("A", 100)},
		{"special characters", "Item!@#$%^&*()"},
		{"accented and non-latin characters", "Café élégant 日本語"},
		{"emoji", "Cool Item 🎉🚀"},
		{"leading spaces", "  Leading Spaces"},
		{"trailing spaces", "Trailing Spaces  "},
		{"whitespace only", "   "},
		{"embedded newline", "Line1\nLine2"},
		{"embedded tab", "Col1\tCol2"},
	} {
		params := params
		t.Run(params.desc+" accepted", func(t *T) {
			item := t.CreateTestItem(ValidItemPayload().Set("name", ldvalue.String(params.name)))
			require.Equal(t, params.name, item.Name)
		})
	}

	t.Run("empty name rejected", func(t *T) {
		resp := t.Post(itemsPath, ValidItemPayload().Set("name", ldvalue.String("")).Build())
		t.RequireValidationError(resp, "name")
	})

	for _, length := range []int{101, 200} {
		length := length
		t.Run(fmt.Sprintf("%d characters rejected", length), func(t *T) {
			name := strings.Repeat("A", length)
			resp := t.Post(itemsPath, ValidItemPayload().Set("name", ldvalue.String(name)).Build())
			t.RequireValidationError(resp, "name")
		})
	}

	for _, params := range []struct {
		desc  string
		value ldvalue.Value
	}{
		{"integer", ldvalue.Int(12345)},
		{"boolean", ldvalue.Bool(true)},
		{"null", ldvalue.Null()},
		{"fractional number", ldvalue.Float64(123.45)},
	} {
		params := params
		t.Run(params.desc+" name rejected", func(t *T) {
			resp := t.Post(itemsPath, ValidItemPayload().Set("name", params.value).Build())
			t.RequireValidationError(resp, "name")
		})
	}
}

func doDescriptionValidationTests(t *T) {
	t.Run("explicit null accepted", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload().Set("description", ldvalue.Null()))
		require.False(t, item.Description.IsDefined())
	})

	t.Run("omitted description accepted", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload().Omit("description"))
		require.False(t, item.Description.IsDefined())
	})

	t.Run("empty string accepted", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload().Set("description", ldvalue.String("")))
		require.True(t, item.Description.IsDefined())
		require.Equal(t, "", item.Description.StringValue())
	})

	t.Run("longest allowed accepted", func(t *T) {
		description := strings.Repeat("D", 500)
		item := t.CreateTestItem(ValidItemPayload().Set("description", ldvalue.String(description)))
		require.Equal(t, description, item.Description.StringValue())
	})

	t.Run("501 characters rejected", func(t *T) {
		description := strings.Repeat("D", 501)
		resp := t.Post(itemsPath, ValidItemPayload().Set("description", ldvalue.String(description)).Build())
		t.RequireValidationError(resp, "description")
	})

	t.Run("markup stored verbatim", func(t *T) {
		description := `<script>alert('xss')</script> & "quotes" 'single'`
		item := t.CreateTestItem(ValidItemPayload().Set("description", ldvalue.String(description)))
		require.Equal(t, description, item.Description.StringValue())
	})

	t.Run("integer description rejected", func(t *T) {
		resp := t.Post(itemsPath, ValidItemPayload().Set("description", ldvalue.Int(12345)).Build())
		t.RequireValidationError(resp, "description")
	})
}

func doPriceValidationTests(t *T) {
	for _, params := range []struct {
		desc  string
		price float64
	}{
		{"smallest positive price", 0.01},
		{"very large price", 999999999.99},
		{"many decimal places", 10.123456789},
	} {
		params := params
		t.Run(params.desc+" accepted", func(t *T) {
			item := t.CreateTestItem(ValidItemPayload().Set("price", ldvalue.Float64(params.price)))
			require.Equal(t, params.price, item.Price)
		})
	}

	t.Run("integer price accepted", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload().Set("price", ldvalue.Int(100)))
		require.Equal(t, float64(100), item.Price)
	})

	for _, params := range []struct {
		desc  string
		value ldvalue.Value
	}{
		{"zero", ldvalue.Int(0)},
		{"negative", ldvalue.Float64(-10.00)},
		{"string", ldvalue.String("10.00")},
		{"null", ldvalue.Null()},
		{"boolean", ldvalue.Bool(true)},
		{"list", ldvalue.ArrayOf(ldvalue.Float64(10.00))},
	} {
		params := params
		t.Run(params.desc+" price rejected", func(t *T) {
			resp := t.Post(itemsPath, ValidItemPayload().Set("price", params.value).Build())
			t.RequireValidationError(resp, "price")
		})
	}
}

func doQuantityValidationTests(t *T) {
	t.Run("zero accepted", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload().Set("quantity", ldvalue.Int(0)))
		require.Equal(t, 0, item.Quantity)
	})

	t.Run("very large quantity accepted", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload().Set("quantity", ldvalue.Int(999999999)))
		require.Equal(t, 999999999, item.Quantity)
	})

	for _, params := range []struct {
		desc  string
		value ldvalue.Value
	}{
		{"negative", ldvalue.Int(-1)},
		{"fractional", ldvalue.Float64(5.5)},
		{"string", ldvalue.String("5")},
		{"null", ldvalue.Null()},
		{"boolean", ldvalue.Bool(true)},
	} {
		params := params
		t.Run(params.desc+" quantity rejected", func(t *T) {
			resp := t.Post(itemsPath, ValidItemPayload().Set("quantity", params.value).Build())
			t.RequireValidationError(resp, "quantity")
		})
	}
}

func doItemIDHandlingTests(t *T) {
	t.Run("very large ID returns 404", func(t *T) {
		t.RequireNotFound(t.Get("/items/9999999999999"))
	})

	t.Run("leading zeros are handled consistently", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		resp := t.Get(fmt.Sprintf("/items/0%d", item.ID))
		// the service may parse away the zero or refuse the lookup, but it
		// must not blow up
		t.RequireStatusIn(resp, http.StatusOK, http.StatusNotFound)
	})

	t.Run("special characters rejected", func(t *T) {
		resp := t.Get(itemsPath + "/" + url.PathEscape("!@#$%"))
		t.RequireValidationError(resp)
	})

	t.Run("trailing slash is tolerated", func(t *T) {
		resp := t.Get(itemsPath + "/")
		t.RequireStatusIn(resp, http.StatusOK, http.StatusTemporaryRedirect)
	})
}

func doUpdateSemanticsTests(t *T) {
	t.Run("ID in the body is ignored", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		resp := t.Put(itemPath(item.ID), ValidItemPayload().Set("id", ldvalue.Int(99999)).Build())
		t.RequireStatusIn(resp, http.StatusOK, http.StatusUnprocessableEntity)
		if resp.Status == http.StatusOK {
			updated := t.RequireItem(resp)
			require.Equal(t, item.ID, updated.ID)
		}
	})

	t.Run("unknown fields are ignored", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		resp := t.Put(itemPath(item.ID), ValidItemPayload().
			Set("extra_field", ldvalue.String("should be ignored")).
			Set("another_extra", ldvalue.Int(12345)).
			Build())
		t.RequireStatus(resp, http.StatusOK)
		body := t.RequireJSON(resp)
		_, ok := body.TryGetByKey("extra_field")
		require.False(t, ok, "unknown field was echoed back")
	})
}

func doResponseShapeTests(t *T) {
	t.Run("item properties have stable types", func(t *T) {
		item := t.CreateTestItem(ValidItemPayload())
		resp := t.Get(itemPath(item.ID))
		t.RequireStatus(resp, http.StatusOK)
		body := t.RequireJSON(resp)

		id := body.GetByKey("id")
		require.Equal(t, ldvalue.NumberType, id.Type())
		require.True(t, id.IsInt(), "id was not an integer")
		require.Equal(t, ldvalue.StringType, body.GetByKey("name").Type())
		require.Equal(t, ldvalue.NumberType, body.GetByKey("price").Type())
		quantity := body.GetByKey("quantity")
		require.Equal(t, ldvalue.NumberType, quantity.Type())
		require.True(t, quantity.IsInt(), "quantity was not an integer")
		require.Equal(t, ldvalue.StringType, body.GetByKey("created_at").Type())
		require.Equal(t, ldvalue.StringType, body.GetByKey("updated_at").Type())
	})

	t.Run("list endpoint returns an array", func(t *T) {
		resp := t.Get(itemsPath)
		t.RequireStatus(resp, http.StatusOK)
		require.Equal(t, ldvalue.ArrayType, t.RequireJSON(resp).Type())
	})

	t.Run("404 bodies carry a detail message", func(t *T) {
		resp := t.Get("/items/999999")
		t.RequireStatus(resp, http.StatusNotFound)
		detail, ok := t.RequireJSON(resp).TryGetByKey("detail")
		require.True(t, ok, `404 body had no "detail" property`)
		require.Equal(t, ldvalue.StringType, detail.Type())
	})

	t.Run("422 bodies carry located issues", func(t *T) {
		resp := t.Post(itemsPath, itemapi.NewPayloadBuilder().Build())
		t.RequireStatus(resp, http.StatusUnprocessableEntity)
		detail := t.RequireJSON(resp).GetByKey("detail")
		require.Equal(t, ldvalue.ArrayType, detail.Type())
		require.NotZero(t, detail.Count())
		for i := 0; i < detail.Count(); i++ {
			issue := detail.GetByIndex(i)
			_, ok := issue.TryGetByKey("loc")
			require.Truef(t, ok, "issue %d had no location", i)
			_, ok = issue.TryGetByKey("msg")
			require.Truef(t, ok, "issue %d had no message", i)
		}
	})

	t.Run("multiple invalid fields are all reported", func(t *T) {
		resp := t.Post(itemsPath, itemapi.NewPayloadBuilder().
			Set("name", ldvalue.String("")).
			Set("price", ldvalue.Int(-1)).
			Set("quantity", ldvalue.Int(-1)).
			Build())
		t.RequireValidationError(resp, "name", "price", "quantity")
	})
}

func doDuplicateItemTests(t *T) {
	t.Run("identical payloads create distinct items", func(t *T) {
		first := t.CreateTestItem(ValidItemPayload())
		second := t.CreateTestItem(ValidItemPayload())
		require.NotEqual(t, first.ID, second.ID)
		require.Equal(t, first.Name, second.Name)
	})
}
