package client

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apisut/items-contract-tests/config"
	"github.com/apisut/items-contract-tests/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type recordedRequest struct {
	method      string
	path        string
	contentType string
	traceParent string
	body        string
}

// requestRecorder remembers the interesting parts of each request so tests
// can assert on exactly what was sent.
type requestRecorder struct {
	lock     sync.Mutex
	requests []recordedRequest
}

func (rec *requestRecorder) handler(delegate http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		rec.lock.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			traceParent: r.Header.Get("traceparent"),
			body:        string(body),
		})
		rec.lock.Unlock()
		delegate.ServeHTTP(w, r)
	})
}

func (rec *requestRecorder) all() []recordedRequest {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	return append([]recordedRequest(nil), rec.requests...)
}

func newTestClient(server *httptest.Server) *APIClient {
	cfg := config.Config{BaseURL: server.URL, RequestTimeout: 5 * time.Second}
	return New(cfg, nil)
}

func TestRequestsCarryMethodPathContentTypeAndBody(t *testing.T) {
	rec := &requestRecorder{}
	server := httptest.NewServer(rec.handler(httphelpers.HandlerWithStatus(200)))
	defer server.Close()
	c := newTestClient(server)

	payload := ldvalue.ObjectBuild().Set("name", ldvalue.String("x")).Build()

	for _, send := range []func() (Response, error){
		func() (Response, error) { return c.Get("/items") },
		func() (Response, error) { return c.Delete("/items/3") },
		func() (Response, error) { return c.Post("/items", payload) },
		func() (Response, error) { return c.Put("/items/3", payload) },
		func() (Response, error) { return c.PostNoBody("/items") },
		func() (Response, error) { return c.PutNoBody("/items/3") },
		func() (Response, error) { return c.Do("PATCH", "/items/3", "text/plain", []byte("hi")) },
	} {
		_, err := send()
		require.NoError(t, err)
	}

	expected := []recordedRequest{
		{method: "GET", path: "/items"},
		{method: "DELETE", path: "/items/3"},
		{method: "POST", path: "/items", contentType: "application/json", body: `{"name":"x"}`},
		{method: "PUT", path: "/items/3", contentType: "application/json", body: `{"name":"x"}`},
		{method: "POST", path: "/items"},
		{method: "PUT", path: "/items/3"},
		{method: "PATCH", path: "/items/3", contentType: "text/plain", body: "hi"},
	}
	recorded := rec.all()
	require.Len(t, recorded, len(expected))
	for i, e := range expected {
		e.traceParent = recorded[i].traceParent // checked separately
		assert.Equal(t, e, recorded[i], "request %d", i)
	}
}

func TestEveryRequestCarriesAFreshTraceParent(t *testing.T) {
	rec := &requestRecorder{}
	server := httptest.NewServer(rec.handler(httphelpers.HandlerWithStatus(200)))
	defer server.Close()
	c := newTestClient(server)

	_, err := c.Get("/items")
	require.NoError(t, err)
	_, err = c.Get("/items")
	require.NoError(t, err)

	recorded := rec.all()
	require.Len(t, recorded, 2)
	assert.Regexp(t, "^00-[0-9a-f]{32}-[0-9a-f]{16}-01$", recorded[0].traceParent)
	assert.Regexp(t, "^00-[0-9a-f]{32}-[0-9a-f]{16}-01$", recorded[1].traceParent)
	assert.NotEqual(t, recorded[0].traceParent, recorded[1].traceParent)
}

func TestResponseCarriesStatusHeadersAndBody(t *testing.T) {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("X-Custom", "yes")
	server := httptest.NewServer(httphelpers.HandlerWithResponse(201, headers, []byte(`{"id":1}`)))
	defer server.Close()
	c := newTestClient(server)

	resp, err := c.Get("/items/1")
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, `{"id":1}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.ContentType())
	assert.Equal(t, "yes", resp.Header.Get("X-Custom"))
}

func TestErrorStatusIsAResponseNotAnError(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(500))
	defer server.Close()
	c := newTestClient(server)

	resp, err := c.Get("/items")
	require.NoError(t, err)
	assert.Equal(t, 500, resp.Status)
}

func TestFailedRequestsAreNotRetried(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(503))
	server := httptest.NewServer(handler)
	defer server.Close()
	c := newTestClient(server)

	resp, err := c.Get("/items")
	require.NoError(t, err)
	assert.Equal(t, 503, resp.Status)
	assert.Len(t, requestsCh, 1)
}

func TestRedirectsAreNotFollowed(t *testing.T) {
	headers := make(http.Header)
	headers.Set("Location", "/items")
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(http.StatusTemporaryRedirect, headers, nil))
	server := httptest.NewServer(handler)
	defer server.Close()
	c := newTestClient(server)

	resp, err := c.Get("/items/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.Status)
	assert.Equal(t, "/items", resp.Header.Get("Location"))
	assert.Len(t, requestsCh, 1)
}

func TestTransportErrorIsReturnedAsError(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	c := newTestClient(server)
	server.Close()

	_, err := c.Get("/items")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET "+server.URL+"/items failed")
}

func TestBaseURLTrailingSlashIsTrimmed(t *testing.T) {
	rec := &requestRecorder{}
	server := httptest.NewServer(rec.handler(httphelpers.HandlerWithStatus(200)))
	defer server.Close()

	cfg := config.Config{BaseURL: server.URL + "/", RequestTimeout: 5 * time.Second}
	c := New(cfg, nil)
	assert.Equal(t, server.URL, c.BaseURL())

	_, err := c.Get("/items")
	require.NoError(t, err)
	recorded := rec.all()
	require.Len(t, recorded, 1)
	assert.Equal(t, "/items", recorded[0].path)
}

func TestRequestsAndResponsesAreLogged(t *testing.T) {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	server := httptest.NewServer(httphelpers.HandlerWithResponse(200, headers, []byte(`{"ok":true}`)))
	defer server.Close()

	var logger framework.CapturingLogger
	c := newTestClient(server).WithLogger(&logger)

	_, err := c.Post("/items", ldvalue.ObjectBuild().Set("name", ldvalue.String("x")).Build())
	require.NoError(t, err)

	output := logger.Output()
	require.Len(t, output, 3)
	assert.Contains(t, output[0].Message, "POST "+server.URL+"/items")
	assert.Contains(t, output[0].Message, "trace 00-")
	assert.Contains(t, output[1].Message, `request body: {"name":"x"}`)
	assert.Contains(t, output[2].Message, `response: 200 {"ok":true}`)
}

func TestWaitUntilReadyPollsUntilServiceIsUp(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(200)
	}))
	defer server.Close()
	c := newTestClient(server)

	var statusBuf bytes.Buffer
	require.NoError(t, c.WaitUntilReady(5*time.Second, &statusBuf))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "..", statusBuf.String())
}

func TestWaitUntilReadyTimesOut(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(503))
	defer server.Close()
	c := newTestClient(server)

	err := c.WaitUntilReady(250*time.Millisecond, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was not ready after")
	assert.Contains(t, err.Error(), "status code 503")
}
