package cmd

import (
	"context"
	"io"

	"github.com/hawk-so/catcherprobe/internal/catcher"
	"github.com/hawk-so/catcherprobe/internal/config"
	"github.com/hawk-so/catcherprobe/internal/http"
	"github.com/hawk-so/catcherprobe/internal/probe"
	"github.com/hawk-so/catcherprobe/internal/trace"
	"github.com/pterm/pterm"
)

type ProbeCmd struct {
	EnvFile []string `name:"env-file" default:".env" help:"Env files overlaid onto the environment. Missing files are skipped."`
	DryRun  bool     `help:"Print the event instead of sending it."`
	Output  string   `short:"o" default:"json" enum:"json,yaml" help:"Dry-run output format (json, yaml)."`
}

func (c *ProbeCmd) Run(ctx context.Context, doer http.HTTPDoer, out io.Writer) error {
	cfg, err := config.Load(c.EnvFile...)
	if err != nil {
		return err
	}
	trace.Redact(cfg.Token)

	shutdowns, err := trace.Init(ctx, cfg.SentryDSN)
	if err != nil {
		pterm.Debug.Printfln("telemetry unavailable: %s", err)
	}
	defer func() {
		for _, s := range shutdowns {
			s()
		}
	}()

	opts := []catcher.Option{catcher.WithHTTPClient(doer)}
	if c.DryRun {
		opts = append(opts, catcher.WithWriter(out, c.Output))
	}

	p := probe.New(*cfg, probe.DefaultReporterFactory(opts...))
	if err := p.Run(ctx); err != nil {
		return err
	}

	pterm.Debug.Printfln("probe finished: %s", p.State())
	return nil
}
