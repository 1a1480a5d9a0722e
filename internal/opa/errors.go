package opa

import "fmt"

// QueryFailedError wraps a transport-layer failure reaching the policy
// endpoint.
type QueryFailedError struct {
	Cause error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("failed to query policy endpoint: %v", e.Cause)
}

func (e *QueryFailedError) Unwrap() error { return e.Cause }

// PolicyNotFoundError reports a 404 from the policy endpoint, which
// means the configured policy path does not exist.
type PolicyNotFoundError struct {
	URI string
}

func (e *PolicyNotFoundError) Error() string {
	return fmt.Sprintf("policy not found at %s", e.URI)
}

// ServerError reports a non-200, non-404 status from the policy
// endpoint.
type ServerError struct {
	Status int
	Body   string
	URI    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("policy endpoint %s returned status %d: %s", e.URI, e.Status, e.Body)
}

type SerializeError struct {
	Cause error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("failed to serialize policy query: %v", e.Cause)
}

func (e *SerializeError) Unwrap() error { return e.Cause }

type DeserializeError struct {
	Reason string
	Cause  error
}

func (e *DeserializeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to deserialize policy response: %v", e.Cause)
	}
	return "failed to deserialize policy response: " + e.Reason
}

func (e *DeserializeError) Unwrap() error { return e.Cause }

// InternalError marks a bridge programming error, never a policy
// verdict.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return "internal authorization error: " + e.Reason
}
