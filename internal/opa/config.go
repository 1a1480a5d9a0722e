package opa

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the bridge needs after option parsing. The
// zero value is not usable; PolicyURI is required.
type Config struct {
	PolicyURI                 string
	BatchPolicyURI            string
	LogRequests               bool
	LogResponses              bool
	AllowPermissionManagement bool
	HTTPTimeout               time.Duration
	TrinoVersion              string
}

const (
	keyPolicyURI                 = "opa.policy.uri"
	keyBatchPolicyURI            = "opa.policy.batched-uri"
	keyLogRequests               = "opa.log-requests"
	keyLogResponses              = "opa.log-responses"
	keyAllowPermissionManagement = "opa.allow-permission-management-operations"
	keyHTTPTimeout               = "opa.http-client.request-timeout"

	httpClientKeyPrefix = "opa.http-client."
)

// ParseConfig resolves the host's string options into a Config.
// Unknown opa.* keys are rejected so a typo fails at startup instead
// of silently weakening policy enforcement.
func ParseConfig(options map[string]string) (Config, error) {
	cfg := Config{TrinoVersion: UnknownTrinoVersion}
	for key, value := range options {
		switch key {
		case keyPolicyURI:
			cfg.PolicyURI = value
		case keyBatchPolicyURI:
			cfg.BatchPolicyURI = value
		case keyLogRequests:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", key, err)
			}
			cfg.LogRequests = b
		case keyLogResponses:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", key, err)
			}
			cfg.LogResponses = b
		case keyAllowPermissionManagement:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", key, err)
			}
			cfg.AllowPermissionManagement = b
		case keyHTTPTimeout:
			d, err := time.ParseDuration(value)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", key, err)
			}
			cfg.HTTPTimeout = d
		default:
			// Remaining opa.http-client.* options are passed through
			// to the HTTP client layer and not interpreted here.
			if strings.HasPrefix(key, httpClientKeyPrefix) {
				continue
			}
			if strings.HasPrefix(key, "opa.") {
				return Config{}, fmt.Errorf("unknown configuration key %s", key)
			}
		}
	}
	if cfg.PolicyURI == "" {
		return Config{}, fmt.Errorf("%s is required", keyPolicyURI)
	}
	return cfg, nil
}
