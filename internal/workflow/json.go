package workflow

import (
	"encoding/json"
	"fmt"
)

// ParseJSON decodes a workflow definition from its JSON wire format:
//
//	{
//	  "nodes": [
//	    {"id": "a", "model_id": "gpt2-123", "model_name": "GPT-2",
//	     "prompt_template": "Analyze this: {input}", "position": {"x": 0, "y": 0}}
//	  ],
//	  "edges": [
//	    {"source": "a", "target": "b", "id": "edge1"}
//	  ]
//	}
//
// A missing prompt_template defaults to "{input}" and a missing edge id to
// "<source>-<target>", matching existing persisted workflow files.
func ParseJSON(data []byte) (*Workflow, error) {
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode workflow JSON: %w", err)
	}
	for i := range w.Nodes {
		if w.Nodes[i].PromptTemplate == "" {
			w.Nodes[i].PromptTemplate = "{input}"
		}
	}
	for i := range w.Edges {
		if w.Edges[i].ID == "" {
			w.Edges[i].ID = w.Edges[i].Source + "-" + w.Edges[i].Target
		}
	}
	return &w, nil
}
