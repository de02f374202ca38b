// Package fetch performs remote GETs with bounded retries and classified
// failure outcomes. The retry loop is deliberately simple: a fixed delay
// between attempts, no backoff, no jitter. Callers that need a different
// policy tune Retries and Delay, not the algorithm.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Kind classifies a failed fetch.
type Kind int

const (
	KindHTTP       Kind = iota // reachable server answered with a non-2xx status
	KindConnection             // could not reach the server
	KindTimeout                // request or dial timed out
	KindOther                  // anything else
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http error"
	case KindConnection:
		return "connection error"
	case KindTimeout:
		return "timeout"
	}
	return "error"
}

// Error is the classified outcome of a fetch that exhausted its retries.
// Status is only set for KindHTTP.
type Error struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Err, e.URL)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Kind, e.Err, e.URL)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a classified 404 response. A missing
// package page is an expected condition, not a transport problem.
func IsNotFound(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindHTTP && fe.Status == http.StatusNotFound
}

const (
	// DefaultRetries bounds the total number of attempts per fetch.
	DefaultRetries = 10
	// DefaultDelay is the fixed wait between attempts.
	DefaultDelay = 500 * time.Millisecond
	// defaultTimeout caps a single request.
	defaultTimeout = 5 * time.Second
)

// Client fetches URLs with bounded retries. The zero value is not usable;
// construct with New and adjust fields before first use. A Client holds only
// immutable configuration after construction and is safe for sequential
// reuse across many fetches.
type Client struct {
	// HTTPClient issues the requests. Tests inject their own.
	HTTPClient *http.Client

	// Retries is the total attempt budget, including the final classified
	// attempt. Values below 1 behave as 1.
	Retries int

	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// OnRetry, when set, observes each failed attempt that will be retried.
	OnRetry func(url string)
}

// New returns a Client with the default retry budget and timeouts.
func New() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		Retries:    DefaultRetries,
		Delay:      DefaultDelay,
	}
}

// Fetch GETs url and returns the response body. It quietly retries
// transient failures (connection errors, timeouts, non-2xx statuses) up to
// Retries-1 times with a fixed delay between attempts, then makes one final
// attempt whose failure is classified and returned as a *Error. A failure is
// always returned to the caller, never escalated: one bad artifact must not
// abort the batch it is part of.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	for attempt := 1; attempt < c.Retries; attempt++ {
		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if c.OnRetry != nil {
			c.OnRetry(url)
		}
		if err := sleep(ctx, c.Delay); err != nil {
			return nil, classify(url, err)
		}
	}

	body, err := c.get(ctx, url)
	if err == nil {
		return body, nil
	}
	return nil, err
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindOther, URL: url, Err: err}
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, classify(url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:   KindHTTP,
			URL:    url,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return body, nil
}

func classify(url string, err error) *Error {
	var ne net.Error
	switch {
	case errors.As(err, &ne) && ne.Timeout(),
		errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return &Error{Kind: KindConnection, URL: url, Err: err}
	}
	return &Error{Kind: KindOther, URL: url, Err: err}
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
