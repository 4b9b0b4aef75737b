// Package fetchutil provides the HTTP page fetcher used by the scrapers:
// a resty client with a browser User-Agent, a fixed per-request timeout and
// bounded retries with exponential backoff on transient statuses.
package fetchutil

import (
	"context"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"

	"kidung-scraper/lib/restyutil"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Page is a fetched document. A non-2xx status is not an error here; the
// caller decides what the status means (404 is a meaningful signal for the
// lyrics fallback).
type Page struct {
	URL        string
	StatusCode int
	Body       string
}

func (p Page) NotFound() bool {
	return p.StatusCode == 404
}

type Fetcher interface {
	GetPage(ctx context.Context, url string) (Page, error)
}

// RetryPolicy bounds transient-failure retries. Statuses outside
// RetryableStatuses (404 included) are returned to the caller untouched.
type RetryPolicy struct {
	MaxAttempts       int
	WaitTime          time.Duration
	MaxWaitTime       time.Duration
	RetryableStatuses []int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		WaitTime:          time.Second,
		MaxWaitTime:       time.Second * 8,
		RetryableStatuses: []int{408, 425, 429, 500, 502, 503, 504},
	}
}

func (p RetryPolicy) retryable(status int) bool {
	for _, s := range p.RetryableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type ClientOptions struct {
	// if empty, a desktop browser user agent is used
	UserAgent string
	// if zero, defaults to 20 seconds
	Timeout time.Duration
	Retry   RetryPolicy
	// optional transcript sink for debug runs
	DebugOutput restyutil.InstrumentOutput
}

type Client struct {
	http *resty.Client
}

func NewClient(opts ClientOptions) Client {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 20
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.8,id;q=0.7")
	client.SetTimeout(opts.Timeout)

	client.SetRetryCount(opts.Retry.MaxAttempts - 1)
	client.SetRetryWaitTime(opts.Retry.WaitTime)
	client.SetRetryMaxWaitTime(opts.Retry.MaxWaitTime)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res != nil && opts.Retry.retryable(res.StatusCode())
	})

	restyutil.InstrumentClient(client, "kidung.lib.fetchutil", opts.DebugOutput)

	return Client{http: client}
}

func (c Client) GetPage(ctx context.Context, url string) (Page, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return Page{}, err
	}
	return Page{
		URL:        url,
		StatusCode: res.StatusCode(),
		Body:       string(res.Body()),
	}, nil
}
