package catcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	src := "package main\n\nfunc main() {\n\tzero := 0\n\t_ = 1 / zero\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	tests := []struct {
		name string
		file string
		line int
		exp  []SourceCodeLine
	}{
		{
			name: "middle of file",
			file: path,
			line: 5,
			exp: []SourceCodeLine{
				{Line: 3, Content: "func main() {"},
				{Line: 4, Content: "\tzero := 0"},
				{Line: 5, Content: "\t_ = 1 / zero"},
				{Line: 6, Content: "}"},
				{Line: 7, Content: ""},
			},
		},
		{
			name: "first line",
			file: path,
			line: 1,
			exp: []SourceCodeLine{
				{Line: 1, Content: "package main"},
				{Line: 2, Content: ""},
				{Line: 3, Content: "func main() {"},
			},
		},
		{
			name: "line out of range",
			file: path,
			line: 99,
		},
		{
			name: "unreadable file",
			file: filepath.Join(t.TempDir(), "missing.go"),
			line: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sourceCode(map[string][]string{}, tt.file, tt.line)
			if d := cmp.Diff(tt.exp, got); d != "" {
				t.Error("source mismatch (-want +got):", d)
			}
		})
	}
}

func TestBacktrace(t *testing.T) {
	frames := []sentry.Frame{
		{Module: "github.com/hawk-so/catcherprobe/internal/probe", Function: "divide", AbsPath: "/src/probe/probe.go", Lineno: 10},
		{Function: "main", Filename: "main.go", Lineno: 3},
	}

	got := backtrace(frames)
	exp := []BacktraceFrame{
		{File: "/src/probe/probe.go", Line: 10, Function: "github.com/hawk-so/catcherprobe/internal/probe.divide"},
		{File: "main.go", Line: 3, Function: "main"},
	}
	if d := cmp.Diff(exp, got); d != "" {
		t.Error("backtrace mismatch (-want +got):", d)
	}
}

type customErr struct{}

func (customErr) Error() string { return "custom" }

func TestDescribe(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantTitle string
		wantType  string
	}{
		{name: "error", value: errors.New("plain"), wantTitle: "plain", wantType: "*errors.errorString"},
		{name: "wrapped error", value: fmt.Errorf("outer: %w", customErr{}), wantTitle: "outer: custom", wantType: "*fmt.wrapError"},
		{name: "custom error", value: customErr{}, wantTitle: "custom", wantType: "catcher.customErr"},
		{name: "string", value: "boom", wantTitle: "boom", wantType: "panic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, typ := describe(tt.value)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantType, typ)
		})
	}
}

func TestErrorStack_PlainError(t *testing.T) {
	assert.Nil(t, errorStack(errors.New("no stack")))
}
