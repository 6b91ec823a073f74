package workflow

// Position is display-only canvas metadata carried through serialization.
// Execution ignores it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single model-invocation step in a workflow graph.
type Node struct {
	// ID is the caller-assigned identifier, unique within the workflow.
	ID string `json:"id"`
	// ModelID references a model resolvable by the invocation provider at
	// execution time. It is deliberately not checked during validation.
	ModelID string `json:"model_id"`
	// ModelName is a human-readable display name.
	ModelName string `json:"model_name"`
	// PromptTemplate may contain {input} and {<node-id>} placeholders.
	PromptTemplate string `json:"prompt_template"`

	Position *Position `json:"position,omitempty"`
}

// Edge is a declared dependency: Target's prompt depends on Source's output.
type Edge struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Workflow is an ordered collection of nodes and a set of directed edges.
// Node declaration order is irrelevant for correctness but is the
// deterministic tie-break for layering.
type Workflow struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// HasNode reports whether a node with the given id is declared.
func (w *Workflow) HasNode(id string) bool {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return true
		}
	}
	return false
}

// NodeByID returns the node with the given id, or nil.
func (w *Workflow) NodeByID(id string) *Node {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i]
		}
	}
	return nil
}

// Successors returns the targets of every edge leaving the given node,
// in edge declaration order.
func (w *Workflow) Successors(id string) []string {
	var out []string
	for _, e := range w.Edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Predecessors returns the sources of every edge entering the given node,
// in edge declaration order.
func (w *Workflow) Predecessors(id string) []string {
	var out []string
	for _, e := range w.Edges {
		if e.Target == id {
			out = append(out, e.Source)
		}
	}
	return out
}

// InDegrees computes the incoming-edge count for every declared node.
func (w *Workflow) InDegrees() map[string]int {
	indeg := make(map[string]int, len(w.Nodes))
	for _, n := range w.Nodes {
		indeg[n.ID] = 0
	}
	for _, e := range w.Edges {
		if _, ok := indeg[e.Target]; ok {
			indeg[e.Target]++
		}
	}
	return indeg
}
