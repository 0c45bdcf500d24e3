// Package productsource holds the adapters for ports.ProductSource: the HTTP
// client for the external catalog, a redis read-through decorator, and an
// in-memory catalog for development.
package productsource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/jcmexdev/karma-storefront/internal/pkg/errx"
	"github.com/jcmexdev/karma-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/ports"
)

var _ ports.ProductSource = (*HTTPClient)(nil)

// maxBodyBytes bounds how much of a response the client will decode.
const maxBodyBytes = 8 << 20

// Config configures the HTTP product source client.
type Config struct {
	BaseURL string

	// Timeout bounds a single request. Zero leaves requests bounded only by
	// the caller's context.
	Timeout time.Duration

	// The breaker opens after BreakerMaxFailures consecutive failures and
	// lets one trial request through after BreakerOpenTimeout.
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	// OnBreakerChange is called with open=true when the breaker opens and
	// open=false when it leaves the open state.
	OnBreakerChange func(open bool)
}

// HTTPClient reads the external catalog. It never retries: a failed read is
// returned to the caller as a retryable errx.AppError.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	sf         singleflight.Group
	tracer     trace.Tracer
}

// NewHTTPClient builds a client. A nil httpClient gets a fresh http.Client
// using cfg.Timeout.
func NewHTTPClient(cfg Config, httpClient *http.Client) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("productsource: base URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errors.Wrapf(err, "productsource: invalid base URL %q", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	st := gobreaker.Settings{
		Name:        "product-source",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// unknown products are answers, not outages
			return err == nil || errors.Is(err, ports.ErrProductNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if cfg.OnBreakerChange == nil {
				return
			}
			if to == gobreaker.StateOpen {
				cfg.OnBreakerChange(true)
			} else if from == gobreaker.StateOpen {
				cfg.OnBreakerChange(false)
			}
		},
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		cb:         gobreaker.NewCircuitBreaker(st),
		tracer:     otel.Tracer("storefront/productsource"),
	}, nil
}

// ListProducts calls GET /api/products.
func (c *HTTPClient) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return c.list(ctx, "/api/products")
}

// ListByCategory calls GET /api/products/category/{category}.
func (c *HTTPClient) ListByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	return c.list(ctx, "/api/products/category/"+url.PathEscape(category))
}

// GetProduct calls GET /api/products/{id}. A 404 maps to ports.ErrProductNotFound.
func (c *HTTPClient) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	path := "/api/products/" + url.PathEscape(id)
	v, err := c.shared(ctx, path, func(ctx context.Context) (interface{}, error) {
		var p entity.Product
		if err := c.get(ctx, path, &p, true); err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*entity.Product)
	return &p, nil
}

// BreakerOpen reports whether reads are currently failing fast.
func (c *HTTPClient) BreakerOpen() bool {
	return c.cb.State() == gobreaker.StateOpen
}

// list collapses concurrent identical reads into one request. Each caller
// gets its own copy of the slice.
func (c *HTTPClient) list(ctx context.Context, path string) ([]entity.Product, error) {
	v, err := c.shared(ctx, path, func(ctx context.Context) (interface{}, error) {
		products := make([]entity.Product, 0)
		if err := c.get(ctx, path, &products, false); err != nil {
			return nil, err
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]entity.Product)), nil
}

// shared runs fetch once per in-flight key. The fetch runs detached from the
// caller's cancellation, keeping its values, so a caller leaving neither
// fails the others nor counts against the breaker. Each caller stops waiting
// when its own ctx ends; the fetch itself is bounded only by the http.Client
// timeout.
func (c *HTTPClient) shared(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		return fetch(detached)
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "productsource: GET %s", key)
	case res := <-ch:
		return res.Val, res.Err
	}
}

// get decodes a 2xx JSON body into out. With single set, a 404 means the
// requested product does not exist.
func (c *HTTPClient) get(ctx context.Context, path string, out any, single bool) error {
	ctx, span := c.tracer.Start(ctx, "productsource.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.route", path)),
	)
	defer span.End()

	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, out, single)
	})
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	switch {
	case errors.Is(err, ports.ErrProductNotFound):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return errx.Unavailable(errors.Wrapf(err, "productsource: GET %s", path))
	default:
		return errx.Unavailable(err)
	}
}

func (c *HTTPClient) do(ctx context.Context, path string, out any, single bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "productsource: build request %s", path)
	}
	req.Header.Set("Accept", "application/json")
	interceptors.InjectHTTP(ctx, req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "productsource: GET %s", path)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && single:
		_, _ = io.Copy(io.Discard, resp.Body)
		return errors.Wrapf(ports.ErrProductNotFound, "productsource: GET %s", path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("productsource: GET %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return errors.Wrapf(err, "productsource: decode %s", path)
	}
	return nil
}
