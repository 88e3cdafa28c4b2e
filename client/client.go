// Package client provides the HTTP client that the test suite uses to talk to
// the service under test.
package client

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/apisut/items-contract-tests/config"
	"github.com/apisut/items-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const readyPollInterval = time.Millisecond * 100

// APIClient is a thin wrapper over one shared http.Client, bound to the base
// URL of the service under test. It is reused for every request in a session;
// there is no per-call connection setup and no retry of any kind, so a
// transport failure surfaces directly to the caller.
//
// Redirects are not followed: the suite asserts on raw status codes, so a 307
// must be observable as a 307.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     framework.Logger
}

// Response is what every request returns on the HTTP level: the status code,
// the response headers, and the raw body. Interpretation of the body is left
// to the caller.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// New creates an APIClient for the configured service. The logger receives a
// line per request and response; pass nil to discard them.
func New(cfg config.Config, logger framework.Logger) *APIClient {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &APIClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// WithLogger returns a view of the same client whose requests are logged to a
// different logger. The underlying http.Client is shared, so connections are
// still reused.
func (c *APIClient) WithLogger(logger framework.Logger) *APIClient {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &APIClient{baseURL: c.baseURL, httpClient: c.httpClient, logger: logger}
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

func (c *APIClient) Get(path string) (Response, error) {
	return c.do("GET", path, "", nil)
}

func (c *APIClient) Delete(path string) (Response, error) {
	return c.do("DELETE", path, "", nil)
}

// Post sends value as a JSON request body.
func (c *APIClient) Post(path string, body ldvalue.Value) (Response, error) {
	return c.do("POST", path, "application/json", []byte(body.JSONString()))
}

// Put sends value as a JSON request body.
func (c *APIClient) Put(path string, body ldvalue.Value) (Response, error) {
	return c.do("PUT", path, "application/json", []byte(body.JSONString()))
}

// PostNoBody sends a POST with no request body at all, which is not the same
// thing as posting an empty JSON object.
func (c *APIClient) PostNoBody(path string) (Response, error) {
	return c.do("POST", path, "", nil)
}

// PutNoBody sends a PUT with no request body at all.
func (c *APIClient) PutNoBody(path string) (Response, error) {
	return c.do("PUT", path, "", nil)
}

// Do is the escape hatch for requests the verb methods cannot express:
// disallowed methods, deliberately malformed JSON, or wrong content types.
func (c *APIClient) Do(method, path, contentType string, body []byte) (Response, error) {
	return c.do(method, path, contentType, body)
}

func (c *APIClient) do(method, path, contentType string, body []byte) (Response, error) {
	url := c.baseURL + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return Response{}, fmt.Errorf("building request %s %s: %w", method, url, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	trace := newTraceParent()
	req.Header.Set("traceparent", trace)

	c.logger.Printf("%s %s (trace %s)", method, url, trace)
	if len(body) > 0 {
		c.logger.Printf("  request body: %s", string(body))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s failed: %w", method, url, err)
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("reading response of %s %s: %w", method, url, err)
	}

	if len(data) > 0 {
		c.logger.Printf("  response: %d %s", resp.StatusCode, string(data))
	} else {
		c.logger.Printf("  response: %d (no body)", resp.StatusCode)
	}
	return Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// WaitUntilReady polls the service's root endpoint until it answers 200 or
// the timeout elapses. A dot is written to statusWriter for each attempt so
// the wait is visible on a console.
func (c *APIClient) WaitUntilReady(timeout time.Duration, statusWriter io.Writer) error {
	deadline := time.Now().Add(timeout)
	for {
		resp, err := c.Get("/")
		if err == nil && resp.Status == http.StatusOK {
			return nil
		}
		if !time.Now().Before(deadline) {
			if err == nil {
				err = fmt.Errorf("status code %d", resp.Status)
			}
			return fmt.Errorf("service at %s was not ready after %s; result of last query was: %s",
				c.baseURL, timeout, err)
		}
		if statusWriter != nil {
			fmt.Fprint(statusWriter, ".")
		}
		time.Sleep(readyPollInterval)
	}
}

// newTraceParent generates a W3C traceparent header value so that a failing
// request can be correlated with the service's own logs.
func newTraceParent() string {
	var traceID [16]byte
	var spanID [8]byte
	_, _ = rand.Read(traceID[:])
	_, _ = rand.Read(spanID[:])
	return fmt.Sprintf("00-%s-%s-01", hex.EncodeToString(traceID[:]), hex.EncodeToString(spanID[:]))
}
