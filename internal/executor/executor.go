package executor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/vk/promptgridgo/internal/ctxlog"
	"github.com/vk/promptgridgo/internal/provider"
	"github.com/vk/promptgridgo/internal/template"
	"github.com/vk/promptgridgo/internal/workflow"
)

// Executor runs workflows against a single model-invocation provider.
// It is stateless between runs and safe for concurrent use.
type Executor struct {
	invoker provider.Invoker
	params  provider.Params
	// maxInFlight caps concurrent model calls within a layer. Zero or
	// negative means unbounded fan-out.
	maxInFlight int64
}

// New creates an Executor. maxInFlight limits concurrent model calls per
// run; pass 0 for no cap.
func New(invoker provider.Invoker, params provider.Params, maxInFlight int) *Executor {
	return &Executor{
		invoker:     invoker,
		params:      params,
		maxInFlight: int64(maxInFlight),
	}
}

// Run validates and executes a workflow against the provider.
//
// It always returns a complete report: a structural validation failure
// yields Success=false with the top-level error and no node results; any
// later failure (model unavailable, generation error, upstream failure,
// cancellation) is contained to the affected nodes and Success stays true.
func (e *Executor) Run(ctx context.Context, wf *workflow.Workflow, input string) *Report {
	runID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("run_id", runID, "provider", e.invoker.Name())
	ctx = ctxlog.WithLogger(ctx, logger)

	if err := workflow.Validate(wf); err != nil {
		logger.Warn("Workflow rejected by validation.", "error", err)
		return validationFailure(err)
	}

	layers, err := workflow.Layers(wf)
	if err != nil {
		// Unreachable after a successful Validate; kept as a hard invariant
		// check so a bug can never half-execute a cyclic graph.
		logger.Error("Layering disagreed with validation.", "error", err)
		return validationFailure(err)
	}

	logger.Info("🚀 Starting workflow execution.", "nodes", len(wf.Nodes), "layers", len(layers))
	start := time.Now()

	runs := make(map[string]*nodeRun, len(wf.Nodes))
	for i := range wf.Nodes {
		runs[wf.Nodes[i].ID] = &nodeRun{node: &wf.Nodes[i]}
	}

	var sem *semaphore.Weighted
	if e.maxInFlight > 0 {
		sem = semaphore.NewWeighted(e.maxInFlight)
	}

	rc := newRunContext(input)
	e.runLayers(ctx, wf, layers, runs, rc, sem)

	// Anything still pending was behind the cancellation point.
	for _, nr := range runs {
		if nr.currentState() == Pending {
			nr.fail(cancelled(ctx.Err()), 0)
		}
	}

	report := &Report{
		Success:            true,
		Nodes:              make(map[string]*NodeResult, len(runs)),
		TotalExecutionTime: time.Since(start).Seconds(),
		Layers:             len(layers),
	}
	for id, nr := range runs {
		report.Nodes[id] = nr.result()
	}

	logger.Info("🏁 Workflow execution finished.",
		"seconds", report.TotalExecutionTime, "failed_nodes", countFailed(runs))
	return report
}

// runLayers drives the layer-by-layer schedule. All nodes of layer k are
// terminal before any node of layer k+1 starts.
func (e *Executor) runLayers(ctx context.Context, wf *workflow.Workflow, layers [][]string, runs map[string]*nodeRun, rc *runContext, sem *semaphore.Weighted) {
	logger := ctxlog.FromContext(ctx)

	for i, layer := range layers {
		if ctx.Err() != nil {
			logger.Warn("Run cancelled, not issuing further layers.", "next_layer", i+1)
			return
		}
		logger.Info("▶️ Starting layer.", "layer", i+1, "of", len(layers), "nodes", layer)

		running := make([]*nodeRun, 0, len(layer))
		for _, id := range layer {
			nr := runs[id]
			if upstream := firstFailedPredecessor(wf, id, runs); upstream != "" {
				logger.Warn("Skipping node due to upstream failure.", "node", id, "upstream", upstream)
				nr.fail(upstreamFailure(upstream), 0)
				continue
			}
			running = append(running, nr)
		}

		var wg sync.WaitGroup
		wg.Add(len(running))
		for _, nr := range running {
			go func(nr *nodeRun) {
				defer wg.Done()
				e.runNode(ctx, nr, rc, sem)
			}(nr)
		}
		wg.Wait()
	}
}

// firstFailedPredecessor returns the id of the first declared predecessor
// that terminated in failure, or "" if the node is clear to run. All
// predecessors are guaranteed terminal because their layers have joined.
func firstFailedPredecessor(wf *workflow.Workflow, nodeID string, runs map[string]*nodeRun) string {
	for _, predID := range wf.Predecessors(nodeID) {
		if runs[predID].currentState() == Failed {
			return predID
		}
	}
	return ""
}

// runNode executes a single node: resolve the prompt, time the model call,
// record the outcome. Failures become data on the nodeRun.
func (e *Executor) runNode(ctx context.Context, nr *nodeRun, rc *runContext, sem *semaphore.Weighted) {
	logger := ctxlog.FromContext(ctx).With("node", nr.node.ID, "model", nr.node.ModelName)

	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			nr.fail(cancelled(err), 0)
			return
		}
		defer sem.Release(1)
	}
	if ctx.Err() != nil {
		nr.fail(cancelled(ctx.Err()), 0)
		return
	}

	nr.setState(Running)
	prompt := template.Resolve(nr.node.PromptTemplate, rc.input, rc.snapshot())
	logger.Debug("Prompt resolved.", "chars", len(prompt))

	start := time.Now()
	output, err := e.invoker.Invoke(ctx, nr.node.ModelID, prompt, e.params)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = cancelled(err)
		}
		logger.Error("Node execution failed.", "error", err, "seconds", elapsed.Seconds())
		nr.fail(err, elapsed)
		return
	}

	// The original backend trimmed whitespace and treated an empty
	// completion as no output at all; surface that as a generation failure
	// instead of poisoning dependents with an empty placeholder value.
	output = strings.TrimSpace(output)
	if output == "" {
		err := provider.Failed(nr.node.ModelID, errors.New("empty output"))
		logger.Error("Node execution failed.", "error", err, "seconds", elapsed.Seconds())
		nr.fail(err, elapsed)
		return
	}

	rc.setOutput(nr.node.ID, output)
	nr.complete(output, elapsed)
	logger.Info("✅ Node completed.", "seconds", elapsed.Seconds())
}

func countFailed(runs map[string]*nodeRun) int {
	n := 0
	for _, nr := range runs {
		if nr.currentState() == Failed {
			n++
		}
	}
	return n
}
