package version

import (
	"github.com/hawk-so/catcherprobe/internal/build"
	"github.com/pterm/pterm"
)

type Cmd struct{}

// Run prints the version and whichever vcs details the binary was built with.
func (c *Cmd) Run() error {
	pterm.Printfln("version: %s", build.Version)
	if build.Revision != "" {
		pterm.Printfln("revision: %s", build.Revision)
	}
	if build.ModificationTime != "" {
		pterm.Printfln("time: %s", build.ModificationTime)
	}
	if build.Modified {
		pterm.Printfln("modified: %t", build.Modified)
	}
	return nil
}
