// Package script is the Lisp frontend. It evaluates design source in a
// sandboxed zygomys environment and produces a CSG tree: all iteration,
// conditionals and module expansion happen here, so the tree handed to
// the evaluator is fully resolved geometry.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/heartwood/pkg/csg"
)

// EvalError is a non-fatal error from user source, such as a parse
// error or a failed assertion.
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

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// every Build call runs in a fresh sandbox so evaluation is
// deterministic and user code cannot leak state between builds.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Build evaluates source and returns the tree it emits.
//
// Return semantics:
//   - success: tree + nil errors + nil error
//   - parse or runtime failure in user code: nil + eval errors + nil error
//   - fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Build(source string) (*csg.Node, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan buildResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- buildResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		root, evalErrs, err := e.build(source)
		ch <- buildResult{root: root, errors: evalErrs, err: err}
	}()

	return e.await(ch, gen)
}

func (e *Engine) build(source string) (*csg.Node, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return csg.NewGroup(), nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	st := &buildState{}
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		// A failed assertion carries a typed error; surface it as the
		// fatal abort so callers can match on it with errors.As.
		if st.abort != nil {
			return nil, nil, st.abort
		}
		return nil, parseZygomysError(err), nil
	}

	switch len(st.roots) {
	case 0:
		return csg.NewGroup(), nil, nil
	case 1:
		return st.roots[0], nil, nil
	default:
		return csg.NewGroup(st.roots...), nil, nil
	}
}

var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting line numbers where the message carries them.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
