package workflow

import "fmt"

// ValidationKind classifies structural validation failures.
type ValidationKind string

const (
	// EmptyWorkflow means the workflow declares no nodes at all.
	EmptyWorkflow ValidationKind = "EmptyWorkflow"
	// DuplicateNode means two nodes share the same id.
	DuplicateNode ValidationKind = "DuplicateNode"
	// UnknownNodeReference means an edge endpoint names a node that is not
	// declared in the workflow.
	UnknownNodeReference ValidationKind = "UnknownNodeReference"
	// InvalidEdge means an edge is degenerate, currently only self-edges.
	InvalidEdge ValidationKind = "InvalidEdge"
	// CycleDetected means the graph cannot be topologically ordered.
	CycleDetected ValidationKind = "CycleDetected"
)

// ValidationError is returned by Validate for any structural defect. It is
// fatal to the whole execution request; no nodes run.
type ValidationError struct {
	Kind ValidationKind
	// NodeID names the offending node where one can be identified: the
	// missing endpoint, the self-referencing node, or one node still on a
	// cycle. Empty for EmptyWorkflow.
	NodeID string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyWorkflow:
		return "workflow has no nodes"
	case DuplicateNode:
		return fmt.Sprintf("duplicate node id %q", e.NodeID)
	case UnknownNodeReference:
		return fmt.Sprintf("edge references unknown node %q", e.NodeID)
	case InvalidEdge:
		return fmt.Sprintf("self-referential edge not allowed on node %q", e.NodeID)
	case CycleDetected:
		return fmt.Sprintf("workflow contains a cycle involving node %q", e.NodeID)
	default:
		return fmt.Sprintf("invalid workflow (%s)", e.Kind)
	}
}
