package catcher

import (
	"os"
	"runtime"
	"strings"

	"github.com/getsentry/sentry-go"
)

const (
	maxFrames = 64
	// contextLines is how many lines are kept on each side of a frame's line.
	contextLines = 2
)

// panicStack returns the stack of the panicking goroutine, starting at the
// function that panicked. It must be called from the deferred function that recovered.
func panicStack() []sentry.Frame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []sentry.Frame
	found := false
	for {
		f, more := frames.Next()
		if found {
			if keep(f) {
				out = append(out, sentry.NewFrame(f))
			}
		} else if f.Function == "runtime.gopanic" {
			found = true
		}
		if !more {
			break
		}
	}

	if !found {
		return callerStack(2)
	}
	return out
}

// callerStack returns the caller's stack, latest call first, skipping skip frames above it.
func callerStack(skip int) []sentry.Frame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []sentry.Frame
	for {
		f, more := frames.Next()
		if keep(f) {
			out = append(out, sentry.NewFrame(f))
		}
		if !more {
			break
		}
	}
	return out
}

// errorStack returns the stack recorded by err itself, if it carries one.
// sentry orders frames oldest first; the result is latest first.
func errorStack(err error) []sentry.Frame {
	st := sentry.ExtractStacktrace(err)
	if st == nil || len(st.Frames) == 0 {
		return nil
	}

	out := make([]sentry.Frame, len(st.Frames))
	for i, f := range st.Frames {
		out[len(out)-1-i] = f
	}
	return out
}

func keep(f runtime.Frame) bool {
	return !strings.HasPrefix(f.Function, "runtime.") && !strings.HasPrefix(f.Function, "testing.")
}

// backtrace converts frames into the wire representation.
// Source lines are attached to in-app frames whose file is readable.
func backtrace(frames []sentry.Frame) []BacktraceFrame {
	files := map[string][]string{}
	out := make([]BacktraceFrame, 0, len(frames))
	for _, f := range frames {
		file := f.AbsPath
		if file == "" {
			file = f.Filename
		}

		fn := f.Function
		if f.Module != "" {
			fn = f.Module + "." + f.Function
		}

		bf := BacktraceFrame{
			File:     file,
			Line:     f.Lineno,
			Column:   f.Colno,
			Function: fn,
		}
		if f.InApp {
			bf.SourceCode = sourceCode(files, file, f.Lineno)
		}
		out = append(out, bf)
	}
	return out
}

func sourceCode(files map[string][]string, file string, line int) []SourceCodeLine {
	lines, ok := files[file]
	if !ok {
		data, err := os.ReadFile(file)
		if err == nil {
			lines = strings.Split(string(data), "\n")
		}
		files[file] = lines
	}
	if line < 1 || line > len(lines) {
		return nil
	}

	from := max(line-contextLines, 1)
	to := min(line+contextLines, len(lines))
	out := make([]SourceCodeLine, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, SourceCodeLine{Line: i, Content: lines[i-1]})
	}
	return out
}
