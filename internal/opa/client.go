package opa

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Doer abstracts the HTTP client so tests can substitute a recording
// transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SingleDecision is the response to a single-decision query. A missing
// result field means false.
type SingleDecision struct {
	DecisionID string `json:"decision_id"`
	Result     bool   `json:"result"`
}

// BatchDecision is the response to a batch filter query. Result holds
// indices into the filterResources list of the request; a missing
// result field means nothing was allowed.
type BatchDecision struct {
	DecisionID string `json:"decision_id"`
	Result     []int  `json:"result"`
}

// DecisionClient posts input documents to a policy endpoint and parses
// the verdict. It is transport and shape validation only; interpreting
// the decision is the caller's job.
type DecisionClient struct {
	doer         Doer
	log          *slog.Logger
	tracer       trace.Tracer
	logRequests  bool
	logResponses bool
}

func NewDecisionClient(doer Doer, log *slog.Logger, tracer trace.Tracer, logRequests, logResponses bool) *DecisionClient {
	return &DecisionClient{
		doer:         doer,
		log:          log,
		tracer:       tracer,
		logRequests:  logRequests,
		logResponses: logResponses,
	}
}

// QueryAllowed sends q to uri and returns the boolean verdict.
func (c *DecisionClient) QueryAllowed(ctx context.Context, uri string, q Query) (SingleDecision, error) {
	var decision SingleDecision
	if err := c.post(ctx, uri, q, &decision); err != nil {
		return SingleDecision{}, err
	}
	return decision, nil
}

// QueryBatch sends q to uri and returns the index-list verdict.
func (c *DecisionClient) QueryBatch(ctx context.Context, uri string, q Query) (BatchDecision, error) {
	var decision BatchDecision
	if err := c.post(ctx, uri, q, &decision); err != nil {
		return BatchDecision{}, err
	}
	return decision, nil
}

func (c *DecisionClient) post(ctx context.Context, uri string, q Query, out any) error {
	body, err := json.Marshal(q)
	if err != nil {
		return &SerializeError{Cause: err}
	}

	ctx, span := c.tracer.Start(ctx, "opa.decision", trace.WithAttributes(
		attribute.String("opa.operation", q.Input.Action.Operation),
		attribute.String("opa.uri", uri),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return &QueryFailedError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	if c.logRequests {
		c.log.Debug("pdp request",
			"uri", uri,
			"headers", req.Header,
			"body", string(body),
		)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return &QueryFailedError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &QueryFailedError{Cause: err}
	}

	if c.logResponses {
		c.log.Debug("pdp response",
			"uri", uri,
			"status", resp.StatusCode,
			"headers", resp.Header,
			"body", string(respBody),
		)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return &PolicyNotFoundError{URI: uri}
	default:
		return &ServerError{Status: resp.StatusCode, Body: string(respBody), URI: uri}
	}

	// Unknown response fields are expected and ignored.
	if err := json.Unmarshal(respBody, out); err != nil {
		return &DeserializeError{Cause: err}
	}
	return nil
}
