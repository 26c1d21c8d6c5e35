// Package catcher reports faults to a Hawk collector.
//
// A Catcher is built once from Options and sends one event per fault with a
// single POST. Nothing is retried or buffered.
package catcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hawk-so/catcherprobe/internal/build"
	"github.com/hawk-so/catcherprobe/internal/http"
	"github.com/pterm/pterm"
)

// Catcher sends fault events to the collector configured by its Options.
type Catcher struct {
	opts    Options
	client  *http.Client
	release string
	context map[string]any
	dryRun  func(*Event) error
	now     func() time.Time
}

// New returns a Catcher for the given Options.
// Empty Token or Host is accepted; the only error is an endpoint that cannot be parsed.
func New(opts Options, options ...Option) (*Catcher, error) {
	cfg := config{
		release: build.Release(),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	client, err := http.NewClient(opts.Endpoint(), cfg.doer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEndpoint, err)
	}

	return &Catcher{
		opts:    opts,
		client:  client.WithUserAgent(build.UserAgent()),
		release: cfg.release,
		context: cfg.context,
		dryRun:  cfg.dryRun,
		now:     cfg.now,
	}, nil
}

// Options returns the configuration the Catcher was built from.
func (c *Catcher) Options() Options {
	return c.opts
}

// Catch reports the fault currently in flight. It must be deferred directly,
// so that it is the function recovering the panic:
//
//	defer c.Catch(ctx, &err)
//
// Every panic value is caught, whatever its type. The result of the report is
// stored in *errp (nil on success). A report failure with a nil errp panics.
// When no panic is in flight Catch does nothing.
func (c *Catcher) Catch(ctx context.Context, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	title, typ := describe(r)
	pterm.Debug.Printfln("caught %s: %s", typ, title)

	err := c.send(ctx, c.event(title, typ, panicStack(), nil))
	if errp != nil {
		*errp = err
		return
	}
	if err != nil {
		panic(err)
	}
}

// Send reports err explicitly. extra is merged into the event context.
// The backtrace is the one recorded by err when it carries one, otherwise the caller's.
func (c *Catcher) Send(ctx context.Context, err error, extra map[string]any) error {
	if err == nil {
		return nil
	}

	frames := errorStack(err)
	if frames == nil {
		frames = callerStack(1)
	}

	title, typ := describe(err)
	return c.send(ctx, c.event(title, typ, frames, extra))
}

func (c *Catcher) event(title, typ string, frames []sentry.Frame, extra map[string]any) *Event {
	var evCtx map[string]any
	if len(c.context)+len(extra) > 0 {
		evCtx = make(map[string]any, len(c.context)+len(extra))
		for k, v := range c.context {
			evCtx[k] = v
		}
		for k, v := range extra {
			evCtx[k] = v
		}
	}

	return &Event{
		Token:       c.opts.Token,
		CatcherType: CatcherType,
		Payload: Payload{
			Title:          title,
			Type:           typ,
			Timestamp:      float64(c.now().UnixMilli()) / 1000,
			Backtrace:      backtrace(frames),
			Release:        c.release,
			CatcherVersion: build.Version,
			Context:        evCtx,
			Addons:         addons(),
		},
	}
}

// maxErrBody bounds how much of a rejected response is echoed into the error.
const maxErrBody = 512

func (c *Catcher) send(ctx context.Context, ev *Event) error {
	if c.dryRun != nil {
		return c.dryRun(ev)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: could not create request body: %w", ErrReport, err)
	}

	req, err := stdhttp.NewRequestWithContext(ctx, stdhttp.MethodPost, "", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: could not create request: %w", ErrReport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	pterm.Debug.Printfln("sending event to %s", c.client.BaseURL())
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return fmt.Errorf("%w: collector responded with status %d: %s", ErrReport, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
