package executor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/promptgridgo/internal/provider"
	"github.com/vk/promptgridgo/internal/testutil"
	"github.com/vk/promptgridgo/internal/workflow"
)

func wfNode(id, model, prompt string) workflow.Node {
	return workflow.Node{ID: id, ModelID: model, ModelName: "Model " + id, PromptTemplate: prompt}
}

func newTestExecutor(fake *testutil.FakeInvoker, maxInFlight int) *Executor {
	return New(fake, provider.DefaultParams(), maxInFlight)
}

func TestRun_SingleNodeResolvesInput(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeInvoker(map[string]testutil.Behavior{
		"m-a": {Output: "done"},
	})
	wf := &workflow.Workflow{Nodes: []workflow.Node{wfNode("A", "m-a", "{input}")}}

	report := newTestExecutor(fake, 0).Run(context.Background(), wf, "hello")

	require.True(t, report.Success)
	assert.Empty(t, report.Error)
	assert.Equal(t, 1, report.Layers)

	rec := fake.Record("m-a")
	require.NotNil(t, rec, "model should have been invoked")
	assert.Equal(t, "hello", rec.Prompt)

	res := report.Nodes["A"]
	require.NotNil(t, res)
	require.NotNil(t, res.Output)
	assert.Equal(t, "done", *res.Output)
	assert.Nil(t, res.Error)
	assert.Equal(t, "m-a", res.ModelID)
}

func TestRun_DependentPromptSeesUpstreamOutput(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeInvoker(map[string]testutil.Behavior{
		"m-a": {Output: "y"},
		"m-b": {Output: "final"},
	})
	wf := &workflow.Workflow{
		Nodes: []workflow.Node{
			wfNode("A", "m-a", "{input}"),
			wfNode("B", "m-b", "prev={A}"),
		},
		Edges: []workflow.Edge{{Source: "A", Target: "B"}},
	}

	report := newTestExecutor(fake, 0).Run(context.Background(), wf, "x")

	require.True(t, report.Success)
	assert.Equal(t, 2, report.Layers)
	require.NotNil(t, fake.Record("m-b"))
	assert.Equal(t, "prev=y", fake.Record("m-b").Prompt)
}

func TestRun_IndependentNodesExecuteConcurrently(t *testing.T) {
	t.Parallel()

	// Three independent nodes, each sleeping 100ms. A sequential schedule
	// would need 300ms; concurrent execution overlaps the windows.
	delay := 100 * time.Millisecond
	fake := testutil.NewFakeInvoker(map[string]testutil.Behavior{
		"m-a": {Delay: delay},
		"m-b": {Delay: delay},
		"m-c": {Delay: delay},
	})
	wf := &workflow.Workflow{Nodes: []workflow.Node{
		wfNode("A", "m-a", "{input}"),
		wfNode("B", "m-b", "{input}"),
		wfNode("C", "m-c", "{input}"),
	}}

	report := newTestExecutor(fake, 0).Run(context.Background(), wf, "go")

	require.True(t, report.Success)
	assert.Equal(t, 1, report.Layers)
	assert.Equal(t, 3, fake.CallCount())
	assert.GreaterOrEqual(t, fake.MaxObservedInFlight(), 2,
		"independent nodes in one layer should overlap")

	for _, id := range []string{"A", "B", "C"} {
		res := report.Nodes[id]
		require.NotNil(t, res.Output, "node %s should have output", id)
		assert.Nil(t, res.Error)
		assert.Greater(t, res.ExecutionTime, 0.0)
	}
}

func TestRun_DiamondFanInWaitsForBothBranches(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeInvoker(map[string]testutil.Behavior{
		"m-a": {Delay: 30 * time.Millisecond, Output: "left"},
		"m-b": {Delay: 120 * time.Millisecond, Output: "right"},
		"m-c": {Output: "merged"},
	})
	wf := &workflow.Workflow{
		Nodes: []workflow.Node{
			wfNode("A", "m-a", "{input}"),
			wfNode("B", "m-b", "{input}"),
			wfNode("C", "m-c", "{A} + {B}"),
		},
		Edges: []workflow.Edge{
			{Source: "A", Target: "C"},
			{Source: "B", Target: "C"},
		},
	}

	report := newTestExecutor(fake, 0).Run(context.Background(), wf, "in")

	require.True(t, report.Success)
	assert.Equal(t, 2, report.Layers)

	recA, recB, recC := fake.Record("m-a"), fake.Record("m-b"), fake.Record("m-c")
	require.NotNil(t, recC)
	assert.False(t, recC.Start.Before(recA.End), "C started before A finished")
	assert.False(t, recC.Start.Before(recB.End), "C started before B finished")
	assert.Equal(t, "left + right", recC.Prompt)
}

func TestRun_UpstreamFailurePoisonsDependentsOnly(t *testing.T) {
	t.Parallel()

	boom := errors.New("model exploded")
	fake := testutil.NewFakeInvoker(map[string]testutil.Behavior{
		"m-a": {Err: provider.Failed("m-a", boom)},
		"m-d": {Output: "independent"},
	})
	// Chain A -> B -> C plus an unrelated node D.
	wf := &workflow.Workflow{
		Nodes: []workflow.Node{
			wfNode("A", "m-a", "{input}"),
			wfNode("B", "m-b", "{A}"),
			wfNode("C", "m-c", "{B}"),
			wfNode("D", "m-d", "{input}"),
		},
		Edges: []workflow.Edge{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "C"},
		},
	}

	report := newTestExecutor(fake, 0).Run(context.Background(), wf, "x")

	require.True(t, report.Success, "per-node failures must not flip the top-level flag")

	resA := report.Nodes["A"]
	require.NotNil(t, resA.Error)
	assert.Contains(t, *resA.Error, "generation failed")
	assert.Nil(t, resA.Output)

	resB := report.Nodes["B"]
	require.NotNil(t, resB.Error)
	assert.Contains(t, *resB.Error, "upstream node 'A' failed")
	assert.Nil(t, resB.Output)
	assert.Zero(t, resB.ExecutionTime)

	resC := report.Nodes["C"]
	require.NotNil(t, resC.Error)
	assert.Contains(t, *resC.Error, "upstream node 'B' failed")
	assert.Nil(t, resC.Output)

	// B and C were never invoked.
	assert.Nil(t, fake.Record("m-b"))
	assert.Nil(t, fake.Record("m-c"))

	// The unrelated branch completed normally.
	resD := report.Nodes["D"]
	require.NotNil(t, resD.Output)
	assert.Equal(t, "independent", *resD.Output)
}

func TestRun_ValidationFailuresNeverReachTheProvider(t *testing.T) {
	t.Parallel()

	cases := map[string]*workflow.Workflow{
		"three-node cycle": {
			Nodes: []workflow.Node{
				wfNode("A", "m-a", "{input}"),
				wfNode("B", "m-b", "{A}"),
				wfNode("C", "m-c", "{B}"),
			},
			Edges: []workflow.Edge{
				{Source: "A", Target: "B"},
				{Source: "B", Target: "C"},
				{Source: "C", Target: "A"},
			},
		},
		"self-edge": {
			Nodes: []workflow.Node{wfNode("A", "m-a", "{input}")},
			Edges: []workflow.Edge{{Source: "A", Target: "A"}},
		},
		"unknown edge endpoint": {
			Nodes: []workflow.Node{wfNode("A", "m-a", "{input}")},
			Edges: []workflow.Edge{{Source: "A", Target: "ghost"}},
		},
	}

	for name, wf := range cases {
		t.Run(name, func(t *testing.T) {
			fake := testutil.NewFakeInvoker(nil)
			report := newTestExecutor(fake, 0).Run(context.Background(), wf, "x")

			assert.False(t, report.Success)
			assert.NotEmpty(t, report.Error)
			assert.Empty(t, report.Nodes)
			assert.Zero(t, fake.CallCount(), "no model call may happen for an invalid workflow")
		})
	}
}

func TestRun_CancellationProducesACompleteReport(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeInvoker(map[string]testutil.Behavior{
		"m-a": {Delay: 50 * time.Millisecond, Output: "done"},
		"m-b": {Delay: 10 * time.Second}, // would stall without cancellation
	})
	wf := &workflow.Workflow{
		Nodes: []workflow.Node{
			wfNode("A", "m-a", "{input}"),
			wfNode("B", "m-b", "{A}"),
			wfNode("C", "m-c", "{B}"),
		},
		Edges: []workflow.Edge{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "C"},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan *Report, 1)
	go func() { done <- newTestExecutor(fake, 0).Run(ctx, wf, "x") }()

	var report *Report
	select {
	case report = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("executor did not terminate after cancellation")
	}

	require.True(t, report.Success)
	require.Len(t, report.Nodes, 3, "report must cover every node even under cancellation")

	require.NotNil(t, report.Nodes["A"].Output, "A finished before the deadline")

	resB := report.Nodes["B"]
	require.NotNil(t, resB.Error)
	assert.Contains(t, *resB.Error, "cancelled")

	resC := report.Nodes["C"]
	require.NotNil(t, resC.Error)
	// C is marked either as cancelled or as poisoned by B, depending on
	// where the deadline hit; it must carry an error either way.
	assert.Nil(t, resC.Output)
}

func TestRun_MaxInFlightCapsLayerFanOut(t *testing.T) {
	t.Parallel()

	behaviors := map[string]testutil.Behavior{}
	nodes := make([]workflow.Node, 0, 6)
	for _, id := range []string{"A", "B", "C", "D", "E", "F"} {
		model := "m-" + id
		behaviors[model] = testutil.Behavior{Delay: 40 * time.Millisecond}
		nodes = append(nodes, wfNode(id, model, "{input}"))
	}
	fake := testutil.NewFakeInvoker(behaviors)
	wf := &workflow.Workflow{Nodes: nodes}

	report := newTestExecutor(fake, 2).Run(context.Background(), wf, "x")

	require.True(t, report.Success)
	assert.Equal(t, 6, fake.CallCount())
	assert.LessOrEqual(t, fake.MaxObservedInFlight(), 2)
}

func TestRun_EmptyOutputIsAGenerationFailure(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeInvoker(map[string]testutil.Behavior{
		"m-a": {Output: "   \n\t "},
	})
	wf := &workflow.Workflow{Nodes: []workflow.Node{wfNode("A", "m-a", "{input}")}}

	report := newTestExecutor(fake, 0).Run(context.Background(), wf, "x")

	require.True(t, report.Success)
	res := report.Nodes["A"]
	require.NotNil(t, res.Error)
	assert.Contains(t, *res.Error, "empty output")
	assert.Nil(t, res.Output)
}

func TestReport_WireFormat(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeInvoker(map[string]testutil.Behavior{"m-a": {Output: "ok"}})
	wf := &workflow.Workflow{Nodes: []workflow.Node{wfNode("A", "m-a", "{input}")}}

	report := newTestExecutor(fake, 0).Run(context.Background(), wf, "x")

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "success")
	assert.Contains(t, decoded, "total_execution_time")
	assert.Contains(t, decoded, "layers")

	nodeA := decoded["nodes"].(map[string]any)["A"].(map[string]any)
	assert.Equal(t, "m-a", nodeA["model_id"])
	assert.Equal(t, "ok", nodeA["output"])
	assert.Nil(t, nodeA["error"], "error must serialize as null on success")
	assert.Contains(t, nodeA, "execution_time")
}
