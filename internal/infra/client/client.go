package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/resilience"
)

var tracer = otel.Tracer("client")

// TokenSource yields the caller's bearer token for upstream requests.
// Returns "" for unauthenticated (public) calls.
type TokenSource func(ctx context.Context) string

// base is the shared plumbing for all upstream service clients: a single
// gateway base URL, bearer injection, circuit breaking and status mapping.
type base struct {
	httpClient *http.Client
	baseURL    string
	service    string
	token      TokenSource
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

func newBase(httpClient *http.Client, baseURL, service string, token TokenSource, cb *gobreaker.CircuitBreaker, cfg resilience.Config) base {
	return base{
		httpClient: httpClient,
		baseURL:    baseURL,
		service:    service,
		token:      token,
		cb:         cb,
		cfg:        cfg,
	}
}

// get performs a GET through the circuit breaker with retry. Reads are
// idempotent, so transient failures are retried with backoff.
func (b *base) get(ctx context.Context, path, resource, id string, out any) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, b.cfg, func() error {
			return b.roundTrip(ctx, http.MethodGet, path, nil, resource, id, out)
		})
	})
	if err != nil {
		return b.wrap(err)
	}
	return nil
}

// send performs a mutating request through the circuit breaker. Mutations
// run exactly once: a failed write is reported to the caller, never replayed.
func (b *base) send(ctx context.Context, method, path string, body any, resource, id string, out any) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.roundTrip(ctx, method, path, body, resource, id, out)
	})
	if err != nil {
		return b.wrap(err)
	}
	return nil
}

func (b *base) roundTrip(ctx context.Context, method, path string, body any, resource, id string, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", resource, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := b.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := b.checkStatus(resp, resource, id); err != nil {
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (b *base) checkStatus(resp *http.Response, resource, id string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &domain.ErrNotFound{Resource: resource, ID: id}
	case resp.StatusCode == http.StatusUnauthorized:
		return &domain.ErrUnauthorized{Message: b.service + " rejected credentials"}
	case resp.StatusCode == http.StatusForbidden:
		return &domain.ErrForbidden{Action: resource}
	case resp.StatusCode == http.StatusConflict:
		return &domain.ErrConflict{Message: readErrorBody(resp)}
	case resp.StatusCode == http.StatusBadRequest:
		return &domain.ErrValidation{Field: resource, Message: readErrorBody(resp)}
	default:
		return fmt.Errorf("%s API returned status %d", b.service, resp.StatusCode)
	}
}

// wrap keeps typed domain errors intact and folds everything else into
// an external-service error so handlers can map it to 502.
func (b *base) wrap(err error) error {
	switch err.(type) {
	case *domain.ErrNotFound, *domain.ErrUnauthorized, *domain.ErrForbidden,
		*domain.ErrConflict, *domain.ErrValidation:
		return err
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return &domain.ErrCircuitOpen{Service: b.service}
	}
	return &domain.ErrExternalService{Service: b.service, Err: err}
}

func readErrorBody(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return resp.Status
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return string(raw)
}

// NoToken is a TokenSource for clients that never authenticate.
func NoToken(context.Context) string { return "" }
