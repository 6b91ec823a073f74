package workflow

import "fmt"

// Layers computes the execution layers of a validated workflow. Each layer
// is a maximal set of node ids whose dependencies are satisfied by earlier
// layers; layer 0 holds every node with no incoming edges. Within a layer,
// nodes appear in declaration order so fixtures and reports stay
// reproducible.
//
// Layers assumes Validate has already accepted the workflow. If a cycle
// slips through regardless, it returns an error rather than dropping nodes
// silently; this is an internal invariant check, not a second user-facing
// validation path.
func Layers(w *Workflow) ([][]string, error) {
	indeg := w.InDegrees()

	var layers [][]string
	placed := 0

	current := make([]string, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		if indeg[n.ID] == 0 {
			current = append(current, n.ID)
		}
	}

	for len(current) > 0 {
		layers = append(layers, current)
		placed += len(current)

		ready := make(map[string]struct{})
		for _, id := range current {
			for _, succ := range w.Successors(id) {
				indeg[succ]--
				if indeg[succ] == 0 {
					ready[succ] = struct{}{}
				}
			}
		}

		// Rebuild the next layer in declaration order, not map order.
		next := make([]string, 0, len(ready))
		for _, n := range w.Nodes {
			if _, ok := ready[n.ID]; ok {
				next = append(next, n.ID)
			}
		}
		current = next
	}

	if placed != len(w.Nodes) {
		return nil, fmt.Errorf("layering left %d node(s) unplaced: workflow was not validated", len(w.Nodes)-placed)
	}
	return layers, nil
}
