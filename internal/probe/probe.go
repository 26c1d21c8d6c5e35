// Package probe checks that fault reporting is wired up by raising exactly one
// synthetic fault and reporting it through a catcher.
package probe

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hawk-so/catcherprobe/internal/catcher"
	"github.com/hawk-so/catcherprobe/internal/config"
	"github.com/hawk-so/catcherprobe/internal/trace"
	"github.com/pterm/pterm"
)

// Fixed parts of the catcher configuration.
const (
	Path   = "/"
	Secure = false
)

// State is the probe's progress. Reported is terminal.
type State int

const (
	Initialized State = iota
	FaultRaised
	Reported
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case FaultRaised:
		return "fault raised"
	case Reported:
		return "reported"
	}
	return "unknown"
}

// Reporter reports the fault in flight. Catch is deferred directly by the
// protected region and stores the outcome of the report in *errp.
type Reporter interface {
	Catch(ctx context.Context, errp *error)
}

// ReporterFactory builds the Reporter from the catcher configuration map.
type ReporterFactory func(catcher.Options) (Reporter, error)

// DefaultReporterFactory builds a catcher.Catcher. Each Reporter it returns is
// tagged with a fresh probeRunId, so every run is told apart on the collector.
func DefaultReporterFactory(options ...catcher.Option) ReporterFactory {
	return func(opts catcher.Options) (Reporter, error) {
		runOpts := append([]catcher.Option{catcher.WithContext("probeRunId", uuid.NewString())}, options...)
		c, err := catcher.New(opts, runOpts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Options maps the loaded configuration onto the catcher configuration map.
// Host and token are passed through verbatim, even when empty.
func Options(cfg config.Config) catcher.Options {
	return catcher.Options{
		Token:  cfg.Token,
		Host:   cfg.Host,
		Path:   Path,
		Secure: Secure,
	}
}

// Probe runs the fault-and-report sequence once per Run.
type Probe struct {
	cfg     config.Config
	factory ReporterFactory
	state   State
}

func New(cfg config.Config, factory ReporterFactory) *Probe {
	if factory == nil {
		factory = DefaultReporterFactory()
	}
	return &Probe{cfg: cfg, factory: factory}
}

// State returns where the last Run got to.
func (p *Probe) State() State {
	return p.state
}

// errNoFault is only returned if the protected region somehow completes.
var errNoFault = errors.New("protected region completed without raising a fault")

// Run builds the reporter, raises the fault and reports it.
// A construction error is returned unchanged. A report error is returned too:
// it is never retried.
func (p *Probe) Run(ctx context.Context) error {
	ctx, span := trace.NewSpan(ctx, "probe run")
	defer span.End()

	p.state = Initialized

	reporter, err := p.factory(Options(p.cfg))
	if err != nil {
		return err
	}
	pterm.Debug.Printfln("reporter constructed for host %q", p.cfg.Host)

	if err := p.protect(ctx, reporter); err != nil {
		return trace.SpanError(span, err)
	}

	p.state = Reported
	pterm.Debug.Println("fault reported")
	return nil
}

// protect is the protected region. Every panic raised in it is caught.
func (p *Probe) protect(ctx context.Context, r Reporter) (err error) {
	defer r.Catch(ctx, &err)

	quotient = p.raise()
	return errNoFault
}

var (
	zero     = 0
	quotient int
)

func (p *Probe) raise() int {
	p.state = FaultRaised
	pterm.Debug.Println("dividing 1 by 0")
	return divide(1, zero)
}

func divide(a, b int) int {
	return a / b
}
