package executor

import "sync"

// runContext is the ephemeral shared state of a single execution: the
// original user input plus the append-only map of produced node outputs.
//
// Each node only ever writes its own entry, and a node's prompt is resolved
// only once every predecessor is terminal, so readers never race writers by
// construction. The lock keeps that invariant cheap to preserve no matter
// how wide a layer fans out.
type runContext struct {
	input string

	mu      sync.RWMutex
	outputs map[string]string
}

func newRunContext(input string) *runContext {
	return &runContext{input: input, outputs: make(map[string]string)}
}

// setOutput records a node's output. Entries are never overwritten.
func (rc *runContext) setOutput(nodeID, output string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, exists := rc.outputs[nodeID]; exists {
		return
	}
	rc.outputs[nodeID] = output
}

// snapshot returns a copy of the outputs recorded so far.
func (rc *runContext) snapshot() map[string]string {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	out := make(map[string]string, len(rc.outputs))
	for k, v := range rc.outputs {
		out[k] = v
	}
	return out
}
