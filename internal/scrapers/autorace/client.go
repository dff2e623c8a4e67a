// Package autorace scrapes the race search of autorace.jp's netstadium portal
// for the result page links published in a year.
package autorace

import (
	"autorace-crawler/internal/components/assert"
	"autorace-crawler/internal/components/telemetry"
	"errors"
	"fmt"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_client_establish_session = "client.establish-session"
	report_client_fetch_month       = "client.fetch-month"
)

const (
	DefaultBaseUrl   = "http://autorace.jp"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	// same limit as net/http, redirects to other hosts are followed
	maxRedirects = 10

	searchPath = "/netstadium/SearchRace"
	resultPath = "/netstadium/SearchRace/Result"
)

var tracer = otel.Tracer("autorace-crawler/scrapers/autorace")
var meter = otel.Meter("autorace-crawler/scrapers/autorace")

type Options struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// Timeout of a single request, 0 leaves the transport default in place.
	Timeout time.Duration
	// Concurrency is the amount of monthly queries that may be in flight at once,
	// anything below 2 fetches the months one after another.
	Concurrency int
	// CloudflareBypass wraps the transport with cloudflare-bp-go.
	CloudflareBypass bool
}

type Client struct {
	http        *resty.Client
	concurrency int
	tel         telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("autorace_scraper", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if parsedBaseUrl.Hostname() == "" {
		return nil, fmt.Errorf("base url %q has no host", opts.BaseUrl)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	// PHPSESSID is set by hand on every query, a jar would send a second copy
	httpClient.SetCookieJar(nil)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	telemetry.InstrumentResty(httpClient, "autorace-crawler/scrapers/autorace/http", tel)

	return &Client{
		http:        httpClient,
		concurrency: opts.Concurrency,
		tel:         tel,
	}, nil
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// broken reports err under id once and marks span as failed. Transport
// errors are left to the resty instrumentation, which already reports them.
func (c *Client) broken(span trace.Span, id string, err error, params ...any) error {
	if !errors.Is(err, ErrHttpIO) {
		c.tel.ReportBroken(id, append([]any{err}, params...)...)
	}
	return failSpan(span, err)
}

func (c *Client) checkStatus(id string, res *resty.Response) {
	if res.IsSuccess() {
		return
	}
	c.tel.ReportWarning(id, "unexpected status", res.Status(), res.Request.URL)
}
