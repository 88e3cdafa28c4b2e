package itemtests

import (
	"fmt"
	"net/http"

	"github.com/apisut/items-contract-tests/itemapi"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ValidItemPayload returns a payload with every field populated. Each call
// returns a fresh builder, so tests can modify it freely.
func ValidItemPayload() *itemapi.PayloadBuilder {
	return itemapi.NewPayloadBuilder().
		Set("name", ldvalue.String("Test Item")).
		Set("description", ldvalue.String("A test item for automated testing")).
		Set("price", ldvalue.Float64(19.99)).
		Set("quantity", ldvalue.Int(50))
}

// MinimalValidPayload returns a payload with only the required fields.
func MinimalValidPayload() *itemapi.PayloadBuilder {
	return itemapi.NewPayloadBuilder().
		Set("name", ldvalue.String("Minimal Item")).
		Set("price", ldvalue.Float64(1.00)).
		Set("quantity", ldvalue.Int(0))
}

// SampleItems returns a batch of distinct valid payloads for tests that need
// more than one item.
func SampleItems() []*itemapi.PayloadBuilder {
	return []*itemapi.PayloadBuilder{
		samplePayload("Sample Item 1", "First sample item", 10.00, 100),
		samplePayload("Sample Item 2", "Second sample item", 25.50, 200),
		samplePayload("Sample Item 3", "Third sample item", 99.99, 50),
	}
}

func samplePayload(name, description string, price float64, quantity int) *itemapi.PayloadBuilder {
	return itemapi.NewPayloadBuilder().
		Set("name", ldvalue.String(name)).
		Set("description", ldvalue.String(description)).
		Set("price", ldvalue.Float64(price)).
		Set("quantity", ldvalue.Int(quantity))
}

// CreateTestItem creates an item and registers a cleanup that deletes it when
// the current test scope ends, so tests cannot leak state into the service.
// The cleanup tolerates the item having already been deleted by the test.
func (t *T) CreateTestItem(payload *itemapi.PayloadBuilder) itemapi.Item {
	item := t.RequireCreated(t.Post(itemsPath, payload.Build()))
	t.Defer(func() error { return t.cleanupItem(item.ID) })
	return item
}

// cleanupItem is the deferred deletion for CreateTestItem. It does not use
// the test's assertions because it runs after the test's outcome is decided;
// any problem is returned so the framework can report it as a cleanup error.
func (t *T) cleanupItem(id int) error {
	resp, err := t.client.Delete(itemPath(id))
	if err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	switch resp.Status {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return nil // the test already deleted it
	default:
		return fmt.Errorf("deleting item %d: unexpected status %d (body: %s)",
			id, resp.Status, string(resp.Body))
	}
}
