package retry

import (
	"context"
	"io"
	"net/http"
	"time"
)

// defaultClient is used when the caller does not supply one.
var defaultClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Fetch issues a GET to url, retrying per cfg. Non-2xx/3xx responses are
// turned into an *HTTPError and retried when the status is in the retryable
// set. On exhaustion the last error is returned unchanged.
func Fetch(ctx context.Context, client *http.Client, url string, cfg Config) (*http.Response, error) {
	return FetchRequest(ctx, client, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	}, cfg)
}

// FetchRequest wraps the retry loop around an outbound request. newReq is
// invoked once per attempt so request bodies are rebuilt instead of re-read.
func FetchRequest(ctx context.Context, client *http.Client, newReq func() (*http.Request, error), cfg Config) (*http.Response, error) {
	if client == nil {
		client = defaultClient
	}

	return Do(ctx, cfg, func(ctx context.Context) (*http.Response, error) {
		req, err := newReq()
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 400 {
			return resp, nil
		}

		// Drain and close so the connection can be reused before a retry.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &HTTPError{Status: resp.StatusCode, URL: req.URL.String()}
	})
}
