// Package wgslgen lowers shader IR modules to WGSL.
//
// The wgsl package does the lowering of one module. This package drives it:
// it validates modules, checks that the emitted text parses, and compiles
// many targets at once with per-target logging, tracing and metrics.
//
// Example usage:
//
//	module, err := irfile.Load("shader.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	source, info, err := wgslgen.Compile(ctx, module, wgsl.DefaultOptions())
//
// Many modules, or one module under several options:
//
//	results, err := wgslgen.CompileTargets(ctx, targets, wgslgen.DefaultOptions())
//	for _, r := range results {
//	    if r.Err != nil {
//	        // only this target failed
//	    }
//	}
package wgslgen

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"goa.design/clue/log"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/wgslgen/ir"
	"github.com/gogpu/wgslgen/wgsl"
	"github.com/gogpu/wgslgen/wgsl/syntax"
)

const instrumentationName = "github.com/gogpu/wgslgen"

// CompileOptions configures the driver.
type CompileOptions struct {
	// Validate runs ir.Validate before lowering.
	Validate bool

	// Check parses the emitted text and fails the target if it does not parse.
	Check bool

	// Parallelism bounds the number of targets compiled at once.
	// Zero or less means GOMAXPROCS.
	Parallelism int
}

// DefaultOptions returns options that validate input and check output.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		Validate:    true,
		Check:       true,
		Parallelism: runtime.GOMAXPROCS(0),
	}
}

// Target is one module to compile.
type Target struct {
	// Name identifies the target in results, logs and spans.
	Name string

	Module *ir.Module

	// Options are passed to wgsl.Compile. Nil means wgsl.DefaultOptions().
	Options *wgsl.Options
}

// Result is the outcome of one target.
type Result struct {
	Name   string
	Source string
	Info   *wgsl.TranslationInfo

	// Err is set when the target failed. Source and Info are then empty.
	Err error
}

// ValidationError reports the structural errors found in a module.
type ValidationError struct {
	Errors []ir.ValidationError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + e.Errors[0].Error()
	default:
		return fmt.Sprintf("validation failed: %s (and %d more)", e.Errors[0].Error(), len(e.Errors)-1)
	}
}

// CheckError reports emitted text that does not parse as WGSL.
type CheckError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	var se *syntax.Error
	if errors.As(e.Err, &se) {
		return "emitted WGSL does not parse: " + se.FormatWithContext(e.Source)
	}
	return "emitted WGSL does not parse: " + e.Err.Error()
}

// Unwrap returns the parser error.
func (e *CheckError) Unwrap() error {
	return e.Err
}

// Validate checks the structure of module.
// It returns a *ValidationError when the module is malformed.
func Validate(module *ir.Module) error {
	errs, err := ir.Validate(module)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Check parses source as WGSL.
// It returns a *CheckError when the text does not parse.
func Check(source string) error {
	if _, err := syntax.ParseModule(source); err != nil {
		return &CheckError{Source: source, Err: err}
	}
	return nil
}

// Compile validates module, lowers it and checks the output.
func Compile(ctx context.Context, module *ir.Module, options *wgsl.Options) (string, *wgsl.TranslationInfo, error) {
	opts := DefaultOptions()
	r := compileTarget(ctx, Target{Name: "module", Module: module, Options: options}, opts)
	return r.Source, r.Info, r.Err
}

// CompileTargets compiles every target, at most opts.Parallelism at a time.
// Each target gets its own emission session; a failing target records its
// error in its Result and does not stop the others. The returned error is
// only set when ctx is done before every target ran. Results are in target
// order.
func CompileTargets(ctx context.Context, targets []Target, opts CompileOptions) ([]Result, error) {
	results := make([]Result, len(targets))
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	log.Debug(ctx, log.KV{K: "msg", V: "compiling targets"}, log.KV{K: "count", V: len(targets)}, log.KV{K: "parallelism", V: limit})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, target := range targets {
		if target.Name == "" {
			target.Name = "target-" + strconv.Itoa(i)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Name: target.Name, Err: err}
				return err
			}
			results[i] = compileTarget(gctx, target, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// compileTarget runs one target inside its own span.
func compileTarget(ctx context.Context, target Target, opts CompileOptions) Result {
	inst := instruments()
	start := time.Now()
	ctx, span := inst.tracer.Start(ctx, "wgslgen.compile",
		trace.WithAttributes(attribute.String("wgslgen.target", target.Name)))
	defer span.End()

	source, info, err := lower(target, opts)
	attrs := metric.WithAttributes(attribute.String("wgslgen.target", target.Name))
	inst.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		inst.failed.Add(ctx, 1, attrs)
		log.Error(ctx, err, log.KV{K: "msg", V: "target failed"}, log.KV{K: "target", V: target.Name})
		return Result{Name: target.Name, Err: err}
	}

	span.SetAttributes(
		attribute.String("wgslgen.session", info.SessionID.String()),
		attribute.Int("wgslgen.malformed_constants", info.MalformedConstants),
	)
	inst.compiled.Add(ctx, 1, attrs)
	log.Debug(ctx,
		log.KV{K: "msg", V: "target compiled"},
		log.KV{K: "target", V: target.Name},
		log.KV{K: "session", V: info.SessionID.String()},
		log.KV{K: "bytes", V: len(source)},
		log.KV{K: "extensions", V: info.Extensions.String()})
	if info.MalformedConstants > 0 {
		log.Warn(ctx,
			log.KV{K: "msg", V: "constants emitted without type information"},
			log.KV{K: "target", V: target.Name},
			log.KV{K: "count", V: info.MalformedConstants})
	}
	return Result{Name: target.Name, Source: source, Info: info}
}

// lower is the untraced pipeline: validate, compile, check.
func lower(target Target, opts CompileOptions) (string, *wgsl.TranslationInfo, error) {
	if target.Module == nil {
		return "", nil, wgsl.NewError(wgsl.ErrInvalidModule, "module is nil")
	}
	if opts.Validate {
		if err := Validate(target.Module); err != nil {
			return "", nil, err
		}
	}

	source, info, err := wgsl.Compile(target.Module, target.Options)
	if err != nil {
		return "", nil, err
	}

	if opts.Check {
		if err := Check(source); err != nil {
			return "", nil, err
		}
	}
	return source, info, nil
}

type telemetry struct {
	tracer   trace.Tracer
	compiled metric.Int64Counter
	failed   metric.Int64Counter
	duration metric.Float64Histogram
}

// instruments uses the global providers. Registration errors go to the
// global error handler.
var instruments = sync.OnceValue(func() *telemetry {
	meter := otel.Meter(instrumentationName)
	t := &telemetry{tracer: otel.Tracer(instrumentationName)}

	var err error
	if t.compiled, err = meter.Int64Counter("wgslgen.targets.compiled",
		metric.WithDescription("Targets lowered to WGSL")); err != nil {
		otel.Handle(err)
	}
	if t.failed, err = meter.Int64Counter("wgslgen.targets.failed",
		metric.WithDescription("Targets that failed validation, lowering or checking")); err != nil {
		otel.Handle(err)
	}
	if t.duration, err = meter.Float64Histogram("wgslgen.compile.duration",
		metric.WithDescription("Time spent compiling one target"), metric.WithUnit("s")); err != nil {
		otel.Handle(err)
	}
	return t
})
