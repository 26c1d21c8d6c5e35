package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hawk-so/catcherprobe/internal/catcher"
	"github.com/hawk-so/catcherprobe/internal/cmd/version"
	"github.com/hawk-so/catcherprobe/internal/http"
	"github.com/pterm/pterm"
)

// HandleErr prints err, and its help text when it carries any, then exits with status 1.
func HandleErr(err error) {
	if err == nil {
		return
	}
	printErr(err)
	os.Exit(1)
}

func printErr(err error) {
	pterm.Error.Println(err)

	var errParse *kong.ParseError
	if errors.As(err, &errParse) {
		_ = kong.DefaultHelpPrinter(kong.HelpOptions{}, errParse.Context)
	}

	var e *catcher.Error
	if errors.As(err, &e) {
		pterm.Println()
		pterm.Info.Println(e.Help())
	}
}

type verbose bool

func (v verbose) BeforeApply() error {
	pterm.EnableDebugMessages()
	return nil
}

type Cmd struct {
	Probe   ProbeCmd    `cmd:"" default:"withargs" help:"Raise one fault and report it to the collector."`
	Version version.Cmd `cmd:"" help:"Display version information."`
	Verbose verbose     `short:"v" help:"Enable verbose output."`
}

func (c *Cmd) BeforeApply(ctx *kong.Context) error {
	ctx.BindTo(http.DefaultClient, (*http.HTTPDoer)(nil))
	ctx.BindTo(os.Stdout, (*io.Writer)(nil))
	return nil
}
