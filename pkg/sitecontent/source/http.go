// Package source provides the places a raw content record can be fetched
// from: an HTTP endpoint, a local file, a published snapshot in a blob store
// or the CMS repository itself.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tendant/artist-site/pkg/sitecontent"
)

// maxRecordSize bounds the body read from a remote source.
const maxRecordSize = 8 << 20

// HTTP fetches a raw record over HTTP, bypassing caches.
type HTTP struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// HTTPOption configures an HTTP source
type HTTPOption func(*HTTP)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithClock sets the clock used for the cache-busting parameter.
func WithClock(now func() time.Time) HTTPOption {
	return func(h *HTTP) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHTTP creates a source for rawURL.
func NewHTTP(rawURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		url:    rawURL,
		client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTP) String() string {
	return h.url
}

// requestURL appends t=<unix millis> so intermediaries cannot serve a stale
// copy.
func (h *HTTP) requestURL() (string, error) {
	u, err := url.Parse(h.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(h.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch requests the record. A non-2xx status is a *sitecontent.FetchError
// wrapping sitecontent.ErrFetchFailed.
func (h *HTTP) Fetch(ctx context.Context) (sitecontent.RawRecord, error) {
	target, err := h.requestURL()
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: h.url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: h.url, Err: err}
	}
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: h.url, Err: fmt.Errorf("%w: %v", sitecontent.ErrFetchFailed, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: h.url, Status: resp.StatusCode, Err: sitecontent.ErrFetchFailed}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordSize))
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: h.url, Status: resp.StatusCode, Err: err}
	}

	record, err := sitecontent.ParseRecord(data)
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: h.url, Status: resp.StatusCode, Err: err}
	}
	return record, nil
}
