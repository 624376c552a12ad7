package telegram

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultDialTimeout     = 5 * time.Second
	defaultTLSHandshake    = 5 * time.Second
	defaultIdleConnTimeout = 30 * time.Second
	defaultClientTimeout   = 30 * time.Second
	defaultRetryAttempts   = 2
	defaultRetryBackoff    = time.Second
)

// buildHTTPClient returns an HTTP client tuned for Telegram API calls,
// with retries on transient dial/timeout failures.
func buildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: defaultTLSHandshake,
	}

	return &http.Client{
		Timeout: defaultClientTimeout,
		Transport: &retryTransport{
			base:       transport,
			maxRetries: defaultRetryAttempts,
			backoff:    defaultRetryBackoff,
		},
	}
}

type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	var lastErr error
	attempts := t.maxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		currReq := req
		if attempt > 1 {
			currReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				currReq.Body = body
			} else if req.Body != nil {
				// Body already consumed and not replayable.
				return nil, lastErr
			}
		}

		resp, err := base.RoundTrip(currReq)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !shouldRetry(err) || attempt == attempts {
			break
		}

		timer := time.NewTimer(t.backoff * time.Duration(attempt))
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

// shouldRetry reports whether a network error is worth retrying.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			return shouldRetry(urlErr.Err)
		}
	}

	return false
}
