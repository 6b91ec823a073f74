package workflow

// Validate checks that a workflow is structurally executable. It verifies,
// in order: the workflow is non-empty, node ids are unique, every edge
// endpoint is declared, no edge is self-referential, and the graph is
// acyclic (Kahn's algorithm).
//
// Model availability is deliberately not checked here. It can change between
// validation and execution and belongs to the invocation provider, which
// fails the individual node at call time.
func Validate(w *Workflow) error {
	if len(w.Nodes) == 0 {
		return &ValidationError{Kind: EmptyWorkflow}
	}

	seen := make(map[string]struct{}, len(w.Nodes))
	for _, n := range w.Nodes {
		if _, dup := seen[n.ID]; dup {
			return &ValidationError{Kind: DuplicateNode, NodeID: n.ID}
		}
		seen[n.ID] = struct{}{}
	}

	for _, e := range w.Edges {
		if _, ok := seen[e.Source]; !ok {
			return &ValidationError{Kind: UnknownNodeReference, NodeID: e.Source}
		}
		if _, ok := seen[e.Target]; !ok {
			return &ValidationError{Kind: UnknownNodeReference, NodeID: e.Target}
		}
		if e.Source == e.Target {
			return &ValidationError{Kind: InvalidEdge, NodeID: e.Source}
		}
	}

	// Kahn's algorithm: repeatedly remove zero-in-degree nodes. Anything
	// left over sits on a cycle.
	indeg := w.InDegrees()
	queue := make([]string, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		if indeg[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++
		for _, succ := range w.Successors(id) {
			indeg[succ]--
			if indeg[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if processed != len(w.Nodes) {
		// Name the first declared node still stuck on a cycle so the error
		// is deterministic.
		for _, n := range w.Nodes {
			if indeg[n.ID] > 0 {
				return &ValidationError{Kind: CycleDetected, NodeID: n.ID}
			}
		}
		return &ValidationError{Kind: CycleDetected}
	}

	return nil
}
