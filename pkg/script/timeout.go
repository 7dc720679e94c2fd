package script

import (
	"fmt"
	"time"

	"github.com/chazu/heartwood/pkg/csg"
)

// BuildTimeout is the hard limit for a single source evaluation.
const BuildTimeout = 5 * time.Second

type buildResult struct {
	root   *csg.Node
	errors []EvalError
	err    error
}

// await blocks until the build goroutine reports or BuildTimeout
// elapses. gen is the generation the caller started; if another Build
// has bumped the counter since, the result belongs to an abandoned run
// and is thrown away.
func (e *Engine) await(ch <-chan buildResult, gen uint64) (*csg.Node, []EvalError, error) {
	timer := time.NewTimer(BuildTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.isCurrent(gen) {
			return nil, nil, fmt.Errorf("build superseded by a newer request")
		}
		return res.root, res.errors, res.err

	case <-timer.C:
		// The goroutine keeps running against a channel nobody
		// reads; its eventual result is never received.
		return nil, nil, fmt.Errorf("evaluation timed out after %s", BuildTimeout)
	}
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
