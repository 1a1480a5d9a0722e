package opa

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/trinobridge/opabridge/internal/trino"
)

// Option customizes construction. Tests inject a recording Doer, a
// quiet logger, or a test tracer.
type Option func(*deps)

type deps struct {
	doer   Doer
	log    *slog.Logger
	tracer trace.Tracer
}

func WithDoer(d Doer) Option {
	return func(o *deps) { o.doer = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *deps) { o.log = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *deps) { o.tracer = t }
}

// New builds the authorizer for cfg: batch when a batch URI is
// configured, single-decision fan-out otherwise.
func New(cfg Config, opts ...Option) (trino.AccessControl, error) {
	if cfg.PolicyURI == "" {
		return nil, fmt.Errorf("%s is required", keyPolicyURI)
	}
	if _, err := url.ParseRequestURI(cfg.PolicyURI); err != nil {
		return nil, fmt.Errorf("invalid policy URI %s: %w", cfg.PolicyURI, err)
	}
	if cfg.BatchPolicyURI != "" {
		if _, err := url.ParseRequestURI(cfg.BatchPolicyURI); err != nil {
			return nil, fmt.Errorf("invalid batch policy URI %s: %w", cfg.BatchPolicyURI, err)
		}
	}

	d := deps{}
	for _, opt := range opts {
		opt(&d)
	}
	if d.doer == nil {
		d.doer = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer("opabridge")
	}

	version := cfg.TrinoVersion
	if version == "" {
		version = UnknownTrinoVersion
	}

	ac := &AccessControl{
		client:                    NewDecisionClient(d.doer, d.log, d.tracer, cfg.LogRequests, cfg.LogResponses),
		policyURI:                 cfg.PolicyURI,
		batchURI:                  cfg.BatchPolicyURI,
		trinoVersion:              version,
		allowPermissionManagement: cfg.AllowPermissionManagement,
		maxFanOut:                 defaultMaxFanOut,
		log:                       d.log,
	}
	if cfg.BatchPolicyURI != "" {
		return &BatchAccessControl{AccessControl: ac}, nil
	}
	return ac, nil
}
