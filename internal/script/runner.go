// Package script executes a target Go script inside an embedded yaegi
// interpreter.
//
// Each run gets a fresh interpreter with the stdlib symbol set, the host
// plot package (so the script's display/close calls route through whatever
// backend the harness installed), and the persistent-scope overrides for
// os.MkdirTemp and os.RemoveAll. The script therefore runs unmodified while
// every temp-dir request and figure operation is diverted.
package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime/debug"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"github.com/timvw/plotkeep/internal/scope"
	"github.com/timvw/plotkeep/plot"
)

// plotPkgPath is the import path scripts use for the plotting facade.
const plotPkgPath = "github.com/timvw/plotkeep/plot"

// Error is a script execution failure. Stack carries the wrapper-side trace
// captured at the recovery point when the script panicked.
type Error struct {
	Err   error
	Stack []byte
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Runner executes target scripts. The zero scope is not valid: a Runner
// always carries the persistent scope its scripts see as the temp facility.
type Runner struct {
	log *zap.Logger
	sc  *scope.Dir
}

// NewRunner returns a runner wiring scripts to the given persistent scope.
func NewRunner(log *zap.Logger, sc *scope.Dir) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log, sc: sc}
}

// Run executes the script at scriptPath.
//
// It fails fast if the path does not exist, changes the working directory to
// the script's directory for the duration of the run (so the script's
// relative references resolve as if invoked directly), and evaluates the
// source in a fresh interpreter. If the source defines a main function it is
// invoked after top-level evaluation.
//
// Any failure or panic raised by the script is returned as a *Error and must
// be treated by the caller as "run completed with error", not as a wrapper
// failure: finalization still has to happen.
func (r *Runner) Run(ctx context.Context, scriptPath string) error {
	if _, err := os.Stat(scriptPath); err != nil {
		return fmt.Errorf("script not found: %s: %w", scriptPath, err)
	}

	abs, err := filepath.Abs(scriptPath)
	if err != nil {
		return fmt.Errorf("resolve script path %s: %w", scriptPath, err)
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("read script %s: %w", abs, err)
	}

	origDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	if err := os.Chdir(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("chdir to script directory: %w", err)
	}
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			r.log.Warn("failed to restore working directory", zap.Error(err))
		}
	}()

	i := interp.New(interp.Options{Args: []string{abs}})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("load stdlib symbols: %w", err)
	}
	if err := i.Use(r.exports()); err != nil {
		return fmt.Errorf("load harness symbols: %w", err)
	}
	r.log.Debug("interpreter ready", zap.String("script", abs))

	return r.eval(ctx, i, string(src))
}

// eval runs the script source and, if present, its main function. Panics in
// interpreted code surface as real panics here, so both steps run under one
// recovery boundary that converts them into a *Error with the trace.
func (r *Runner) eval(ctx context.Context, i *interp.Interpreter, src string) (runErr error) {
	defer func() {
		if rec := recover(); rec != nil {
			runErr = &Error{
				Err:   fmt.Errorf("script panic: %v", rec),
				Stack: debug.Stack(),
			}
		}
	}()

	if _, err := i.EvalWithContext(ctx, src); err != nil {
		return &Error{Err: fmt.Errorf("script failed: %w", err)}
	}

	// Top-level statements already ran. A declared main, the conventional
	// entry point of a full program, is invoked explicitly.
	mainFn, err := i.Eval("main.main")
	if err != nil {
		return nil
	}
	fn, ok := mainFn.Interface().(func())
	if !ok {
		return nil
	}
	fn()
	return nil
}

// exports is the symbol set injected on top of the stdlib: the host plot
// package, plus the persistent scope standing in for the os temp-dir
// facility.
func (r *Runner) exports() interp.Exports {
	ex := interp.Exports{
		plotPkgPath + "/plot": {
			"New":      reflect.ValueOf(plot.New),
			"Show":     reflect.ValueOf(plot.Show),
			"Close":    reflect.ValueOf(plot.Close),
			"CloseAll": reflect.ValueOf(plot.CloseAll),
			"Figures":  reflect.ValueOf(plot.Figures),
			"Figure":   reflect.ValueOf((*plot.Figure)(nil)),
		},
	}
	if r.sc != nil {
		// Later Use calls win: every os.MkdirTemp the script (or anything it
		// imports) reaches resolves to the persistent scope, and os.RemoveAll
		// refuses to delete inside it.
		ex["os/os"] = map[string]reflect.Value{
			"MkdirTemp": reflect.ValueOf(r.sc.MkdirTemp),
			"RemoveAll": reflect.ValueOf(r.sc.RemoveAll),
		}
	}
	return ex
}
