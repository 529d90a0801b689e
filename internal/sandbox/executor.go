// Package sandbox runs model-generated analysis snippets in a yaegi interpreter instead of
// handing them to the toolchain or the OS. Snippets cannot import packages, touch the filesystem
// or network, or outlive the execution timeout; everything they can reach is the dataset frame and
// the answer builder bound into the interpreter.
package sandbox

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"

	"unsc-explorer/internal/answer"
	"unsc-explorer/internal/dataset"
)

const defaultTimeout = 10 * time.Second

// forbidden identifies snippet text that must never reach the interpreter. Imports are banned
// outright: the harness provides everything a snippet may use.
var forbidden = []*regexp.Regexp{
	regexp.MustCompile(`\bimport\b`),
	regexp.MustCompile(`\bpackage\b`),
	regexp.MustCompile(`\bos\s*\.`),
	regexp.MustCompile(`\bsyscall\b`),
	regexp.MustCompile(`\bunsafe\b`),
	regexp.MustCompile(`\bgo\s+[\w(]`),
	regexp.MustCompile(`\bselect\s*\{`),
}

type Executor struct {
	timeout time.Duration
}

func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Run executes a snippet against df and returns whatever the snippet wrote to the answer builder.
// Any failure (screening, evaluation, runtime, timeout) is an execution error for the caller to
// surface as chat text.
func (e *Executor) Run(ctx context.Context, code string, df *dataset.Frame) (*answer.Answer, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("empty snippet")
	}
	if err := screen(code); err != nil {
		return nil, err
	}

	out := answer.NewBuilder()

	i := interp.New(interp.Options{})
	err := i.Use(interp.Exports{
		"analysis/analysis": {
			"Df":  reflect.ValueOf(df),
			"Out": reflect.ValueOf(out),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not bind analysis symbols: %w", err)
	}

	if _, err := i.Eval(wrap(code)); err != nil {
		return nil, fmt.Errorf("snippet evaluation failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// EvalWithContext stops the interpreter when the deadline passes, so a runaway loop cannot
	// outlive the call. Panics inside interpreted code come back as errors, not process panics.
	res, err := i.EvalWithContext(ctx, "main.Analyze()")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("snippet execution timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("snippet execution failed: %w", err)
	}
	if res.IsValid() {
		if callErr, ok := res.Interface().(error); ok && callErr != nil {
			return nil, callErr
		}
	}

	return out.Answer(), nil
}

func screen(code string) error {
	for _, re := range forbidden {
		if re.MatchString(code) {
			return fmt.Errorf("snippet rejected: contains forbidden token %q", re.String())
		}
	}
	return nil
}

// wrap embeds the snippet body into the fixed harness. The snippet sees df and out as ordinary
// variables; the trailing return keeps bodies without an explicit return valid.
func wrap(code string) string {
	var b strings.Builder
	b.WriteString("package main\n\n")
	b.WriteString("import \"analysis\"\n\n")
	b.WriteString("var (\n\tdf  = analysis.Df\n\tout = analysis.Out\n)\n\n")
	b.WriteString("func Analyze() error {\n")
	for _, line := range strings.Split(code, "\n") {
		b.WriteString("\t")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\treturn nil\n}\n")
	return b.String()
}
