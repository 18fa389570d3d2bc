// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/x/profiler"
)

// Trace modes accepted by --trace.
const (
	traceOpenTelemetry = "otel"
	traceOpenCensus    = "opencensus"
	tracePprof         = "pprof"
	traceCallgrind     = "callgrind"
)

// startTrace enables the profiler selected by mode on rt.  The returned
// function completes the profile and must be called once evaluation ends.
// Modes pprof and callgrind write their profile to output.
func startTrace(rt *lisp.Runtime, mode, output string) (func() error, error) {
	switch mode {
	case "":
		return func() error { return nil }, nil
	case traceOpenTelemetry:
		return startOpenTelemetry(rt)
	case traceOpenCensus:
		return startOpenCensus(rt)
	case tracePprof:
		return startPprof(rt, output)
	case traceCallgrind:
		return startCallgrind(rt, output)
	}
	return nil, fmt.Errorf("unknown trace mode: %q", mode)
}

func startOpenTelemetry(rt *lisp.Runtime) (func() error, error) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(logSpanExporter{}))
	otel.SetTracerProvider(tp)
	ctx := context.Background()
	ctx, root := tp.Tracer("slisp").Start(ctx, "run")
	p := profiler.NewOpenTelemetryAnnotator(rt, ctx, profiler.WithTypeLabeler())
	if err := p.Enable(); err != nil {
		return nil, err
	}
	return func() error {
		err := p.Complete()
		root.End()
		return errors.Join(err, tp.Shutdown(context.Background()))
	}, nil
}

// logSpanExporter logs each completed span.
type logSpanExporter struct{}

func (logSpanExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		log.Printf("span %s trace=%s span=%s parent=%s duration=%s",
			span.Name(),
			span.SpanContext().TraceID(),
			span.SpanContext().SpanID(),
			span.Parent().SpanID(),
			span.EndTime().Sub(span.StartTime()))
	}
	return nil
}

func (logSpanExporter) Shutdown(context.Context) error { return nil }

// logOCExporter logs each completed opencensus span.
type logOCExporter struct{}

func (logOCExporter) ExportSpan(sd *octrace.SpanData) {
	log.Printf("span %s trace=%s span=%s parent=%s duration=%s",
		sd.Name, sd.TraceID, sd.SpanID, sd.ParentSpanID, sd.EndTime.Sub(sd.StartTime))
}

func startOpenCensus(rt *lisp.Runtime) (func() error, error) {
	exporter := logOCExporter{}
	octrace.RegisterExporter(exporter)
	octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
	ctx, root := octrace.StartSpan(context.Background(), "run")
	p := profiler.NewOpenCensusAnnotator(rt, ctx)
	if err := p.Enable(); err != nil {
		octrace.UnregisterExporter(exporter)
		return nil, err
	}
	return func() error {
		err := p.Complete()
		root.End()
		octrace.UnregisterExporter(exporter)
		return err
	}, nil
}

func startPprof(rt *lisp.Runtime, output string) (func() error, error) {
	if output == "" {
		return nil, errors.New("pprof tracing requires --profile")
	}
	f, err := os.Create(output) //#nosec G304
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	p := profiler.NewPprofAnnotator(rt, context.Background())
	if err := p.Enable(); err != nil {
		pprof.StopCPUProfile()
		_ = f.Close()
		return nil, err
	}
	return func() error {
		err := p.Complete()
		pprof.StopCPUProfile()
		return errors.Join(err, f.Close())
	}, nil
}

func startCallgrind(rt *lisp.Runtime, output string) (func() error, error) {
	if output == "" {
		return nil, errors.New("callgrind tracing requires --profile")
	}
	p := profiler.NewCallgrindProfiler(rt)
	if err := p.SetFile(output); err != nil {
		return nil, err
	}
	if err := p.Enable(); err != nil {
		return nil, err
	}
	return p.Complete, nil
}
