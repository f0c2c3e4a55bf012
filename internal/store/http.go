package store

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"metagame-tracker/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

// HTTPBackend talks to a key-blob endpoint that stores documents at
// `<url>/<location>`, authenticates with a bearer token and versions objects
// with ETags (conditional GET / conditional PUT).
type HTTPBackend struct {
	http     *resty.Client
	baseUrl  string
	token    string
	location string
}

func NewHTTPBackend(baseUrl, token, location string, tel telemetry.API) *HTTPBackend {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("store_http", tel))

	return &HTTPBackend{
		http:     client,
		baseUrl:  strings.TrimSuffix(baseUrl, "/"),
		token:    token,
		location: strings.TrimPrefix(location, "/"),
	}
}

func (b *HTTPBackend) configured() bool {
	return b.baseUrl != "" && b.token != "" && b.location != ""
}

func (b *HTTPBackend) objectUrl() string {
	return b.baseUrl + "/" + b.location
}

func (b *HTTPBackend) Get(ctx context.Context) ([]byte, Version, error) {
	if !b.configured() {
		return nil, "", ErrUnavailable
	}

	res, err := b.http.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		SetHeader("Accept", "application/json").
		Get(b.objectUrl())
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", b.location, err)
	}

	switch {
	case res.StatusCode() == http.StatusNotFound:
		return nil, "", errNotFound
	case res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden:
		return nil, "", rejected("get %s: credential refused (%d)", b.location, res.StatusCode())
	case res.IsError():
		return nil, "", rejected("get %s: %s", b.location, res.Status())
	}

	version := Version(res.Header().Get("ETag"))
	if version == "" {
		return nil, "", rejected("get %s: response carries no version", b.location)
	}
	return res.Body(), version, nil
}

func (b *HTTPBackend) Put(ctx context.Context, blob []byte, expected Version) (Version, error) {
	if !b.configured() {
		return "", ErrUnavailable
	}

	req := b.http.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		SetHeader("Content-Type", "application/json").
		SetBody(blob)
	if expected == "" {
		req.SetHeader("If-None-Match", "*")
	} else {
		req.SetHeader("If-Match", string(expected))
	}

	res, err := req.Put(b.objectUrl())
	if err != nil {
		return "", fmt.Errorf("put %s: %w", b.location, err)
	}

	switch {
	case res.StatusCode() == http.StatusConflict || res.StatusCode() == http.StatusPreconditionFailed:
		return "", &ConflictError{Expected: expected, Current: Version(res.Header().Get("ETag"))}
	case res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden:
		return "", rejected("put %s: credential refused (%d)", b.location, res.StatusCode())
	case res.IsError():
		return "", rejected("put %s: %s", b.location, res.Status())
	}

	version := Version(res.Header().Get("ETag"))
	if version == "" {
		return "", rejected("put %s: response carries no version", b.location)
	}
	return version, nil
}
