package http

import (
	"net/http"
	"net/url"
)

//go:generate mockgen -source=client.go -destination=mock/mock.go -package=mock

// Client sends requests relative to a single collector endpoint.
type Client struct {
	doer      HTTPDoer
	baseURL   *url.URL
	userAgent string
}

// HTTPDoer interface for making HTTP requests
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient creates an HTTP client with any HTTPDoer implementation.
// The baseURL is parsed here; an unparseable value is the only error returned.
func NewClient(baseURL string, doer HTTPDoer) (*Client, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	if doer == nil {
		doer = DefaultClient
	}

	return &Client{
		doer:    doer,
		baseURL: parsedURL,
	}, nil
}

// WithUserAgent returns a copy of the client that sets the User-Agent header
// on every request that does not already carry one.
func (c *Client) WithUserAgent(ua string) *Client {
	cp := *c
	cp.userAgent = ua
	return &cp
}

// BaseURL returns the endpoint every request is resolved against.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Do performs an HTTP request, resolving its URL against the base URL.
// A request with an empty URL is sent to the base URL itself.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	fullURL := c.baseURL
	if req.URL != nil {
		fullURL = c.baseURL.ResolveReference(req.URL)
	}

	header := req.Header
	if header == nil {
		header = make(http.Header)
	}
	if c.userAgent != "" && header.Get("User-Agent") == "" {
		header.Set("User-Agent", c.userAgent)
	}

	newReq := &http.Request{
		Method:        req.Method,
		URL:           fullURL,
		Header:        header,
		Body:          req.Body,
		GetBody:       req.GetBody,
		ContentLength: req.ContentLength,
	}

	if req.Context() != nil {
		newReq = newReq.WithContext(req.Context())
	}

	return c.doer.Do(newReq)
}
