package catcher

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pbnjay/memory"
	"gopkg.in/yaml.v3"
)

// CatcherType identifies events produced by this catcher on the collector side.
const CatcherType = "errors/golang"

// Event is the envelope posted to the collector.
type Event struct {
	Token       string  `json:"token" yaml:"token"`
	CatcherType string  `json:"catcherType" yaml:"catcherType"`
	Payload     Payload `json:"payload" yaml:"payload"`
}

// Payload describes a single fault.
type Payload struct {
	Title          string           `json:"title" yaml:"title"`
	Type           string           `json:"type,omitempty" yaml:"type,omitempty"`
	Timestamp      float64          `json:"timestamp" yaml:"timestamp"`
	Backtrace      []BacktraceFrame `json:"backtrace,omitempty" yaml:"backtrace,omitempty"`
	Release        string           `json:"release,omitempty" yaml:"release,omitempty"`
	CatcherVersion string           `json:"catcherVersion,omitempty" yaml:"catcherVersion,omitempty"`
	Context        map[string]any   `json:"context,omitempty" yaml:"context,omitempty"`
	Addons         map[string]any   `json:"addons,omitempty" yaml:"addons,omitempty"`
}

// BacktraceFrame is one call of the backtrace, latest call first.
type BacktraceFrame struct {
	File       string           `json:"file" yaml:"file"`
	Line       int              `json:"line" yaml:"line"`
	Column     int              `json:"column" yaml:"column"`
	Function   string           `json:"function,omitempty" yaml:"function,omitempty"`
	SourceCode []SourceCodeLine `json:"sourceCode,omitempty" yaml:"sourceCode,omitempty"`
}

// SourceCodeLine is a line of source around a frame.
type SourceCodeLine struct {
	Line    int    `json:"line" yaml:"line"`
	Content string `json:"content" yaml:"content"`
}

// describe returns the title and type of a recovered panic value.
func describe(v any) (title, typ string) {
	switch e := v.(type) {
	case runtime.Error:
		return e.Error(), "runtime.Error"
	case error:
		return e.Error(), fmt.Sprintf("%T", e)
	default:
		return fmt.Sprint(v), "panic"
	}
}

func addons() map[string]any {
	return map[string]any{
		"go": map[string]any{
			"version": runtime.Version(),
			"os":      runtime.GOOS,
			"arch":    runtime.GOARCH,
			"cpus":    runtime.NumCPU(),
			"memory":  memory.TotalMemory(),
		},
	}
}

type encoder func(io.Writer, *Event) error

var encoders = map[string]encoder{
	"json": func(w io.Writer, ev *Event) error {
		data, err := json.MarshalIndent(ev, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	},
	"yaml": func(w io.Writer, ev *Event) error {
		data, err := yaml.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	},
}

// Formats lists the names Encode accepts.
var Formats = []string{"json", "yaml"}

// Encode writes ev to w in the given format. An empty format means JSON.
func Encode(w io.Writer, ev *Event, format string) error {
	if format == "" {
		format = "json"
	}

	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("unsupported output format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
	return enc(w, ev)
}
