package executor

import (
	"sync/atomic"
	"time"

	"github.com/vk/promptgridgo/internal/workflow"
)

// State represents the execution state of a node during a run.
type State int32

const (
	// Pending indicates the node's layer has not been reached yet.
	Pending State = iota
	// Running indicates the node is currently invoking its model.
	Running
	// Completed indicates the node produced an output.
	Completed
	// Failed indicates the node failed, was skipped due to an upstream
	// failure, or was cancelled.
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// nodeRun is the mutable runtime companion of a workflow node. Output, err
// and elapsed are written only by the goroutine that owns the node and read
// only after its layer has been joined; state is atomic so sibling layers
// can observe terminal status safely.
type nodeRun struct {
	node  *workflow.Node
	state atomic.Int32

	output  string
	err     error
	elapsed time.Duration
}

func (nr *nodeRun) setState(s State) {
	nr.state.Store(int32(s))
}

func (nr *nodeRun) currentState() State {
	return State(nr.state.Load())
}

func (nr *nodeRun) complete(output string, elapsed time.Duration) {
	nr.output = output
	nr.elapsed = elapsed
	nr.setState(Completed)
}

func (nr *nodeRun) fail(err error, elapsed time.Duration) {
	nr.err = err
	nr.elapsed = elapsed
	nr.setState(Failed)
}

// result converts the runtime state into the immutable report entry. Only
// call after the node is terminal.
func (nr *nodeRun) result() *NodeResult {
	res := &NodeResult{
		ModelID:       nr.node.ModelID,
		ModelName:     nr.node.ModelName,
		ExecutionTime: nr.elapsed.Seconds(),
	}
	switch nr.currentState() {
	case Completed:
		out := nr.output
		res.Output = &out
	case Failed:
		msg := nr.err.Error()
		res.Error = &msg
	}
	return res
}
