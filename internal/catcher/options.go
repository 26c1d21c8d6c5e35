package catcher

import (
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/hawk-so/catcherprobe/internal/http"
)

// Options is the fixed configuration map a Catcher is built from.
// Values are used verbatim; empty Token or Host is not an error.
type Options struct {
	Token  string
	Host   string
	Path   string
	Secure bool
}

// Endpoint returns the collector URL the event is posted to.
// The scheme follows Secure, unless Host is already an absolute http(s) URL,
// in which case Host is used as is and Path is appended to it.
func (o Options) Endpoint() string {
	if isURL(o.Host) {
		return strings.TrimSuffix(o.Host, "/") + o.Path
	}

	scheme := "http"
	if o.Secure {
		scheme = "https"
	}
	return scheme + "://" + o.Host + o.Path
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type config struct {
	doer    http.HTTPDoer
	release string
	context map[string]any
	dryRun  func(*Event) error
	now     func() time.Time
}

// Option is for optional configuration of the New call.
type Option func(*config)

// WithHTTPClient sets the HTTPDoer the event is sent with.
func WithHTTPClient(doer http.HTTPDoer) Option {
	return func(c *config) {
		c.doer = doer
	}
}

// WithRelease overrides the release reported with every event.
func WithRelease(release string) Option {
	return func(c *config) {
		c.release = release
	}
}

// WithContext adds a key to the context sent with every event.
func WithContext(key string, val any) Option {
	return func(c *config) {
		if c.context == nil {
			c.context = map[string]any{}
		}
		c.context[key] = val
	}
}

// WithDryRun replaces the outbound request with fn.
// fn receives the fully built event and its error is returned as the report result.
func WithDryRun(fn func(*Event) error) Option {
	return func(c *config) {
		c.dryRun = fn
	}
}

// WithWriter is a dry run that encodes the event to w in the given format ("json" or "yaml").
func WithWriter(w io.Writer, format string) Option {
	return WithDryRun(func(ev *Event) error {
		return Encode(w, ev, format)
	})
}

// withClock is for testing purposes.
func withClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}
