package itemtests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/apisut/items-contract-tests/client"
	"github.com/apisut/items-contract-tests/framework"
	"github.com/apisut/items-contract-tests/itemapi"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const itemsPath = "/items"

func itemPath(id int) string {
	return fmt.Sprintf("/items/%d", id)
}

// T represents a test scope. It implements the same basic interface as Go's
// testing.T, so it is compatible with assertion libraries, but the tests in
// this project are run by our own framework rather than by the Go test
// runner. It also provides the scope's view of the service under test: every
// request made through T is captured in the test's debug output, and a
// request that fails at the transport level fails the test, since the suite
// assumes a reachable service.
type T struct {
	context *framework.Context
	client  *client.APIClient
}

func newTestScope(context *framework.Context, apiClient *client.APIClient) *T {
	return &T{
		context: context,
		client:  apiClient.WithLogger(context.DebugLogger()),
	}
}

// Errorf reports a test failure. It does not cause the test to terminate.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow terminates the test immediately. If no failure was previously
// reported with Errorf, the test fails with no message.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest in its own scope.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.client))
	})
}

// Debug writes a message to the test's debug output.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Defer registers a cleanup to run when this scope ends, whether the test
// passed, failed, or was skipped. Cleanup errors are reported separately and
// never change the test's result.
func (t *T) Defer(cleanup func() error) {
	t.context.Defer(cleanup)
}

// Get makes a GET request, failing the test if the request could not be
// completed at all. An error response from the service is not a failure; the
// status is the caller's to assert on.
func (t *T) Get(path string) client.Response {
	resp, err := t.client.Get(path)
	require.NoError(t, err)
	return resp
}

// Post makes a POST request with a JSON body.
func (t *T) Post(path string, body ldvalue.Value) client.Response {
	resp, err := t.client.Post(path, body)
	require.NoError(t, err)
	return resp
}

// Put makes a PUT request with a JSON body.
func (t *T) Put(path string, body ldvalue.Value) client.Response {
	resp, err := t.client.Put(path, body)
	require.NoError(t, err)
	return resp
}

// Delete makes a DELETE request.
func (t *T) Delete(path string) client.Response {
	resp, err := t.client.Delete(path)
	require.NoError(t, err)
	return resp
}

// PostNoBody makes a POST request with no body at all, as opposed to an
// empty JSON object.
func (t *T) PostNoBody(path string) client.Response {
	resp, err := t.client.PostNoBody(path)
	require.NoError(t, err)
	return resp
}

// PutNoBody makes a PUT request with no body at all.
func (t *T) PutNoBody(path string) client.Response {
	resp, err := t.client.PutNoBody(path)
	require.NoError(t, err)
	return resp
}

// Do makes a request with full control over method, content type, and raw
// body, for cases that deliberately send something other than valid JSON.
func (t *T) Do(method, path, contentType string, body []byte) client.Response {
	resp, err := t.client.Do(method, path, contentType, body)
	require.NoError(t, err)
	return resp
}

// RequireStatus asserts the response status, quoting the response body in
// the failure message since it usually explains the surprise.
func (t *T) RequireStatus(resp client.Response, status int) {
	require.Equalf(t, status, resp.Status, "unexpected response status (body: %s)", string(resp.Body))
}

// RequireStatusIn asserts that the status is one of an allowed set, for the
// few behaviors where the contract leaves the service a choice.
func (t *T) RequireStatusIn(resp client.Response, statuses ...int) {
	require.Containsf(t, statuses, resp.Status, "unexpected response status (body: %s)", string(resp.Body))
}

// RequireJSON asserts that the response body is valid JSON and returns it as
// a parsed value for further inspection.
func (t *T) RequireJSON(resp client.Response) ldvalue.Value {
	require.Truef(t, json.Valid(resp.Body), "response body was not valid JSON: %q", string(resp.Body))
	return ldvalue.Parse(resp.Body)
}

// RequireItem asserts that the response body parses as a single item.
func (t *T) RequireItem(resp client.Response) itemapi.Item {
	item, err := itemapi.ParseItem(resp.Body)
	require.NoErrorf(t, err, "response body was not an item: %q", string(resp.Body))
	return item
}

// RequireItemList asserts that the response body parses as a list of items.
func (t *T) RequireItemList(resp client.Response) []itemapi.Item {
	items, err := itemapi.ParseItemList(resp.Body)
	require.NoErrorf(t, err, "response body was not an item list: %q", string(resp.Body))
	return items
}

// RequireCreated asserts a 201 response carrying the created item.
func (t *T) RequireCreated(resp client.Response) itemapi.Item {
	t.RequireStatus(resp, http.StatusCreated)
	return t.RequireItem(resp)
}

// RequireItemResponse asserts a 200 response carrying an item.
func (t *T) RequireItemResponse(resp client.Response) itemapi.Item {
	t.RequireStatus(resp, http.StatusOK)
	return t.RequireItem(resp)
}

// RequireNoContent asserts a 204 response with an empty body.
func (t *T) RequireNoContent(resp client.Response) {
	t.RequireStatus(resp, http.StatusNoContent)
	require.Emptyf(t, resp.Body, "expected empty body with 204 status, got %q", string(resp.Body))
}

// RequireNotFound asserts a 404 response whose detail message says so.
func (t *T) RequireNotFound(resp client.Response) {
	t.RequireStatus(resp, http.StatusNotFound)
	msg, err := itemapi.ParseErrorMessage(resp.Body)
	require.NoErrorf(t, err, "404 body was not an error message: %q", string(resp.Body))
	require.Containsf(t, strings.ToLower(msg.Detail), "not found",
		"404 detail did not mention the missing resource: %q", msg.Detail)
}

// RequireValidationError asserts a 422 response with a non-empty list of
// issues, and that each of the given fields is named by at least one issue.
func (t *T) RequireValidationError(resp client.Response, fields ...string) itemapi.ValidationError {
	t.RequireStatus(resp, http.StatusUnprocessableEntity)
	ve, err := itemapi.ParseValidationError(resp.Body)
	require.NoErrorf(t, err, "422 body was not a validation error: %q", string(resp.Body))
	require.NotEmptyf(t, ve.Detail, "422 body had no validation issues: %q", string(resp.Body))
	for _, f := range fields {
		require.Truef(t, ve.HasField(f), "validation error did not mention field %q (fields were %v)",
			f, ve.FieldNames())
	}
	return ve
}

// GetItem fetches an item by ID, requiring success.
func (t *T) GetItem(id int) itemapi.Item {
	return t.RequireItemResponse(t.Get(itemPath(id)))
}

// UpdateItem replaces an item by ID, requiring success.
func (t *T) UpdateItem(id int, payload *itemapi.PayloadBuilder) itemapi.Item {
	return t.RequireItemResponse(t.Put(itemPath(id), payload.Build()))
}

// DeleteItem deletes an item by ID, requiring success.
func (t *T) DeleteItem(id int) {
	t.RequireNoContent(t.Delete(itemPath(id)))
}

// ListItems fetches the item collection, requiring success.
func (t *T) ListItems() []itemapi.Item {
	resp := t.Get(itemsPath)
	t.RequireStatus(resp, http.StatusOK)
	return t.RequireItemList(resp)
}
