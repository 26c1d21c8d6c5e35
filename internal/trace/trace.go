// Package trace is the probe's own telemetry: OpenTelemetry spans exported
// through Sentry, and capture of the probe's own failures.
// It is disabled unless a DSN is configured and DO_NOT_TRACK is unset.
package trace

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	sentryotel "github.com/getsentry/sentry-go/otel"
	"github.com/hawk-so/catcherprobe/internal/build"
	"github.com/pterm/pterm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hawk-so/catcherprobe/trace"

// envVarDNT disables all telemetry when present, whatever its value.
const envVarDNT = "DO_NOT_TRACK"

var (
	once   sync.Once
	tracer trace.Tracer

	// secrets are replaced in everything sent to Sentry.
	secretsMu sync.RWMutex
	secrets   []string
)

func NewSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	once.Do(func() {
		tracer = otel.Tracer(tracerName)
	})
	return tracer.Start(ctx, name)
}

// SpanError records err on span, captures it in Sentry and returns it unchanged.
func SpanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, redact(err.Error()))
	sentry.CaptureException(err)
	return err
}

// DNT reports whether DO_NOT_TRACK is set.
func DNT() bool {
	_, ok := os.LookupEnv(envVarDNT)
	return ok
}

// Redact registers values, such as the catcher token, that must never leave the process.
func Redact(values ...string) {
	secretsMu.Lock()
	defer secretsMu.Unlock()
	for _, v := range values {
		if v != "" {
			secrets = append(secrets, v)
		}
	}
}

type Shutdown func()

// Init configures Sentry and the global tracer provider.
// An empty dsn, or DO_NOT_TRACK, leaves Sentry without a transport, so nothing is sent.
func Init(ctx context.Context, dsn string) ([]Shutdown, error) {
	if DNT() {
		pterm.Debug.Println("Tracing is disabled (DO_NOT_TRACK)")
		dsn = ""
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		EnableTracing:    dsn != "",
		Environment:      "probe",
		Release:          build.Release(),
		TracesSampleRate: 1.0,
		// ServerName can be considered PII, hardcode to N/A
		ServerName:            "N/A",
		BeforeSend:            removeSecrets,
		BeforeSendTransaction: removeSecrets,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to initialize sentry: %w", err)
	}

	cleanups := []Shutdown{func() { sentry.Flush(2 * time.Second) }}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(build.Name),
			attribute.String("version", build.Version),
		),
	)
	if err != nil {
		r = resource.Default()
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sentryotel.NewSentrySpanProcessor()),
		sdktrace.WithResource(r),
	)
	cleanups = append(cleanups, func() { _ = tracerProvider.Shutdown(ctx) })

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(sentryotel.NewSentryPropagator())

	return cleanups, nil
}

const (
	redacted = "[REDACTED]"
	userHome = "[USER_HOME]"
)

func redact(s string) string {
	secretsMu.RLock()
	defer secretsMu.RUnlock()
	for _, v := range secrets {
		s = strings.ReplaceAll(s, v, redacted)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" && home != "/" {
		s = strings.ReplaceAll(s, home, userHome)
	}
	return s
}

// removeSecrets scrubs registered secrets and the user's home directory from the event.
func removeSecrets(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	event.Message = redact(event.Message)

	for i := range event.Exception {
		event.Exception[i].Value = redact(event.Exception[i].Value)
	}

	for _, span := range event.Spans {
		span.Name = redact(span.Name)
		span.Description = redact(span.Description)
	}

	return event
}
