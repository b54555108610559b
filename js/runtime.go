// Package js exposes the DOM sugar to scripts. It uses the goja JavaScript
// engine (pure Go ES5.1+ implementation).
package js

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Runtime wraps a goja runtime with a console and error collection.
type Runtime struct {
	vm      *goja.Runtime
	logger  *zap.Logger
	mu      sync.Mutex // serializes Execute and ExecuteScript
	errMu   sync.Mutex
	errors  []error
	onError func(error)
}

// NewRuntime creates a runtime. A nil logger discards console output.
func NewRuntime(logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runtime{
		vm:     goja.New(),
		logger: logger.Named("js"),
	}
	r.setupConsole()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// SetOnError sets a callback for JavaScript errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("script execution panic: %v", p)
			r.reportError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.reportError(err)
	}
	return result, err
}

// ExecuteScript compiles and runs code in sloppy mode; src names it in
// stack traces. Errors are collected and returned.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("script compilation panic in %s: %v", src, p)
			r.reportError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		err = errors.Wrapf(err, "compile %s", src)
		r.reportError(err)
		return err
	}

	if _, err = r.vm.RunProgram(program); err != nil {
		r.reportError(err)
	}
	return err
}

// Errors returns all errors that occurred during execution, listener
// errors included.
func (r *Runtime) Errors() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.errors = r.errors[:0]
}

func (r *Runtime) reportError(err error) {
	r.errMu.Lock()
	r.errors = append(r.errors, err)
	onError := r.onError
	r.errMu.Unlock()

	r.logger.Error("script error", zap.Error(err))
	if onError != nil {
		onError(err)
	}
}

// setupConsole routes console output to the logger.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	logger := r.logger.Named("console")

	logFunc := func(level zapcore.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			if ce := logger.Check(level, formatArgs(call.Arguments)); ce != nil {
				ce.Write()
			}
			return goja.Undefined()
		}
	}
	console.Set("log", logFunc(zap.InfoLevel))
	console.Set("info", logFunc(zap.InfoLevel))
	console.Set("warn", logFunc(zap.WarnLevel))
	console.Set("error", logFunc(zap.ErrorLevel))
	console.Set("debug", logFunc(zap.DebugLevel))

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg += ": " + formatArgs(call.Arguments[1:])
			}
			logger.Error(msg)
		}
		return goja.Undefined()
	})

	counts := make(map[string]int)
	console.Set("count", func(call goja.FunctionCall) goja.Value {
		label := "default"
		if len(call.Arguments) > 0 {
			label = call.Arguments[0].String()
		}
		counts[label]++
		logger.Info(fmt.Sprintf("%s: %d", label, counts[label]))
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

// formatArgs formats console arguments for output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		switch {
		case goja.IsUndefined(arg):
			parts[i] = "undefined"
		case goja.IsNull(arg):
			parts[i] = "null"
		default:
			parts[i] = arg.String()
		}
	}
	return strings.Join(parts, " ")
}
