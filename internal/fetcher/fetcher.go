package fetcher

import (
	"context"
	"fmt"
	"time"

	"metagame-tracker/internal/components/assert"
	"metagame-tracker/internal/components/restydump"
	"metagame-tracker/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	report_fetcher_fetch     = "fetcher.fetch"
	report_fetcher_fetch_all = "fetcher.fetch-all"
)

var tracer = telemetry.Tracer("metagame-tracker/internal/fetcher")

const (
	DefaultTimeout        = 30 * time.Second
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	// MaxConcurrency bounds any fan-out, parallel requests beyond this tend to
	// trip the rate limiting of the source sites.
	MaxConcurrency = 8
)

type Config struct {
	Identity          Identity
	Timeout           time.Duration
	RequestsPerSecond float64
	AcceptLanguage    string
	// DisableBypass uses a plain transport instead of the browser-like TLS one.
	DisableBypass bool
	// Dump receives every http exchange when set.
	Dump restydump.Output
}

// Options tune a single fetch, zero fields fall back to the fetcher's config.
type Options struct {
	Timeout        time.Duration
	Identity       Identity
	Referer        string
	AcceptLanguage string
	Headers        map[string]string
}

type RawDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

func (d RawDocument) Text() string {
	return string(d.Body)
}

// Fetcher retrieves documents from the metagame sources while presenting
// itself as an ordinary browser. It does not retry, the caller decides what a
// failure means.
type Fetcher struct {
	http   *resty.Client
	config Config
	tel    telemetry.API
}

func New(config Config, tel telemetry.API) (*Fetcher, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("fetcher", tel)

	if config.Identity == (Identity{}) {
		config.Identity = DefaultIdentity
	}
	if _, err := config.Identity.Headers(); err != nil {
		return nil, err
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 2
	}
	if config.AcceptLanguage == "" {
		config.AcceptLanguage = DefaultAcceptLanguage
	}

	client := resty.New()
	if !config.DisableBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	// burst >= requests per second just means that no requests will be dropped
	burst := int(config.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	rateLimiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		err := rateLimiter.Wait(req.Context())
		if err != nil && req.Context().Err() == nil {
			// the limiter gives up early when the wait would outlast the deadline
			return fmt.Errorf("rate limit: %w: %w", context.DeadlineExceeded, err)
		}
		return err
	})

	telemetry.InstrumentResty(client, tel)
	restydump.Attach(client, config.Dump)

	return &Fetcher{
		http:   client,
		config: config,
		tel:    tel,
	}, nil
}

func (f *Fetcher) resolve(opts Options) (time.Duration, map[string]string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.config.Timeout
	}
	identity := opts.Identity
	if identity == (Identity{}) {
		identity = f.config.Identity
	}

	headers, err := identity.Headers()
	if err != nil {
		return 0, nil, err
	}
	headers["Accept-Language"] = f.config.AcceptLanguage
	if opts.AcceptLanguage != "" {
		headers["Accept-Language"] = opts.AcceptLanguage
	}
	if opts.Referer != "" {
		headers["Referer"] = opts.Referer
	}
	for key, value := range opts.Headers {
		headers[key] = value
	}
	return timeout, headers, nil
}

// Fetch performs a single GET. Failures are always a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options) (RawDocument, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url.full", url))

	timeout, headers, err := f.resolve(opts)
	if err != nil {
		fetchErr := &FetchError{Kind: KindNetworkFailure, URL: url, Err: err}
		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, fetchErr.Error())
		return RawDocument{}, fetchErr
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := f.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		fetchErr := transportError(url, err)
		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, fetchErr.Error())
		f.tel.ReportWarning(report_fetcher_fetch, fetchErr)
		return RawDocument{}, fetchErr
	}

	span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode()))
	if fetchErr := classifyResponse(url, res.StatusCode(), res.Body()); fetchErr != nil {
		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, fetchErr.Error())
		f.tel.ReportWarning(report_fetcher_fetch, fetchErr)
		return RawDocument{}, fetchErr
	}

	return RawDocument{
		URL:         url,
		StatusCode:  res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Body:        res.Body(),
	}, nil
}

type Result struct {
	Document RawDocument
	Err      error
}

// FetchAll fetches every url with at most `concurrency` requests in flight.
// Results are aligned with urls by index, one failure does not cancel the rest.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, opts Options, concurrency int) []Result {
	results := make([]Result, len(urls))
	Parallel(ctx, len(urls), concurrency, func(ctx context.Context, i int) {
		doc, err := f.Fetch(ctx, urls[i], opts)
		results[i] = Result{Document: doc, Err: err}
	})

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		f.tel.ReportWarning(report_fetcher_fetch_all, fmt.Errorf("%d out of %d fetches failed", failed, len(urls)))
	}
	return results
}
