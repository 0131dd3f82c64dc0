// Package engine provides the Lisp evaluation engine for box scripts.
// It wraps zygomys in a sandboxed environment and builds a scene graph
// from user source code.
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/cratekit/pkg/boxgen"
	"github.com/chazu/cratekit/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
	log "github.com/sirupsen/logrus"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose result arrived after a
	// newer Evaluate started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for box evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh scene for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	defaults   boxgen.Params
	timeout    time.Duration
}

// NewEngine creates a new Engine. Options omitted from a (box ...) form
// take their values from defaults.
func NewEngine(defaults boxgen.Params) *Engine {
	return &Engine{defaults: defaults, timeout: EvalTimeout}
}

// SetTimeout changes the evaluation limit. Non-positive values restore
// EvalTimeout.
func (e *Engine) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = EvalTimeout
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeout = d
}

// Defaults returns the parameters used for omitted box options.
func (e *Engine) Defaults() boxgen.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.defaults
}

// SetDefaults replaces the parameters used for omitted box options.
func (e *Engine) SetDefaults(p boxgen.Params) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaults = p
}

// Evaluate takes Lisp source code and produces a new Scene.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*graph.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	defaults := e.defaults
	timeout := e.timeout
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := evaluate(source, defaults)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	return e.wait(ch, gen, timeout)
}

// evalResult carries one sandbox run back to Evaluate.
type evalResult struct {
	scene  *graph.Scene
	errors []EvalError
	err    error
}

// wait blocks for the sandbox started as generation gen. A script still
// running at the deadline is abandoned; when it finishes, its scene is
// dropped because nobody reads the buffered channel.
func (e *Engine) wait(ch <-chan evalResult, gen uint64, timeout time.Duration) (*graph.Scene, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			log.WithFields(log.Fields{"generation": gen, "current": current}).Debug("discarding stale box script")
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		log.WithFields(log.Fields{"generation": gen, "timeout": timeout}).Warn("box script timed out")
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func evaluate(source string, defaults boxgen.Params) (*graph.Scene, []EvalError, error) {
	s := graph.New()

	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return s, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, s, defaults)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return s, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
