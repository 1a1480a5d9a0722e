package opa

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/trinobridge/opabridge/internal/trino"
)

const (
	testPolicyURI = "http://pdp.test/v1/data/trino/allow"
	testBatchURI  = "http://pdp.test/v1/data/trino/batch"
)

type recordedRequest struct {
	URI  string
	Body string
}

// scriptedDoer records every request and answers with a scripted
// response. Safe for concurrent use so fan-out tests can share it.
type scriptedDoer struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(req *http.Request, body []byte) (*http.Response, error)
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	d.mu.Lock()
	d.requests = append(d.requests, recordedRequest{URI: req.URL.String(), Body: string(body)})
	d.mu.Unlock()
	return d.respond(req, body)
}

func (d *scriptedDoer) recorded() []recordedRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]recordedRequest, len(d.requests))
	copy(out, d.requests)
	return out
}

func respondJSON(status int, body string) func(*http.Request, []byte) (*http.Response, error) {
	return func(*http.Request, []byte) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingDoer fails the test on any request. Used where an operation
// must be decided without network traffic.
type failingDoer struct{ t *testing.T }

func (d failingDoer) Do(req *http.Request) (*http.Response, error) {
	d.t.Helper()
	d.t.Fatalf("unexpected request to %s", req.URL)
	return nil, nil
}

func newSingle(t *testing.T, doer Doer) *AccessControl {
	t.Helper()
	ac, err := New(Config{PolicyURI: testPolicyURI}, WithDoer(doer), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ac.(*AccessControl)
}

func newBatch(t *testing.T, doer Doer) *BatchAccessControl {
	t.Helper()
	ac, err := New(Config{PolicyURI: testPolicyURI, BatchPolicyURI: testBatchURI}, WithDoer(doer), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ac.(*BatchAccessControl)
}

func testIdentity() trino.Identity {
	return trino.Identity{User: "alice", Groups: []string{"analysts"}}
}

func testSecurityContext() trino.SecurityContext {
	return trino.SecurityContext{Identity: testIdentity(), QueryID: "20260101_000000_00000_aaaaa"}
}
