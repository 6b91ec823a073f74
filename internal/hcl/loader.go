package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/promptgridgo/internal/ctxlog"
	"github.com/vk/promptgridgo/internal/provider"
	"github.com/vk/promptgridgo/internal/template"
	"github.com/vk/promptgridgo/internal/workflow"
)

// Loader parses workflow definition files written in HCL.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL workflow loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// positionBlock mirrors the optional canvas position of a node.
type positionBlock struct {
	X float64 `hcl:"x,optional"`
	Y float64 `hcl:"y,optional"`
}

// nodeBlock represents a `node "<id>" { ... }` block.
type nodeBlock struct {
	ID        string         `hcl:"id,label"`
	Model     string         `hcl:"model"`
	ModelName string         `hcl:"model_name,optional"`
	Prompt    string         `hcl:"prompt,optional"`
	Position  *positionBlock `hcl:"position,block"`
}

// edgeBlock represents an `edge { source = ... target = ... }` block.
type edgeBlock struct {
	Source string `hcl:"source"`
	Target string `hcl:"target"`
}

// generationBlock overrides the default generation parameters for the run.
type generationBlock struct {
	MaxTokens   *int     `hcl:"max_tokens,optional"`
	Temperature *float64 `hcl:"temperature,optional"`
}

// fileRoot is the top-level structure of a workflow file.
type fileRoot struct {
	Nodes      []*nodeBlock     `hcl:"node,block"`
	Edges      []*edgeBlock     `hcl:"edge,block"`
	Generation *generationBlock `hcl:"generation,block"`
}

// LoadFile reads and parses a workflow definition from disk.
func (l *Loader) LoadFile(ctx context.Context, path string) (*workflow.Workflow, provider.Params, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, provider.Params{}, fmt.Errorf("failed to read workflow file: %w", err)
	}
	return l.Parse(ctx, src, path)
}

// Parse decodes a workflow definition from HCL source. The filename is only
// used in diagnostics.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*workflow.Workflow, provider.Params, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, provider.Params{}, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &root); diags.HasErrors() {
		return nil, provider.Params{}, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	wf := &workflow.Workflow{
		Nodes: make([]workflow.Node, 0, len(root.Nodes)),
		Edges: make([]workflow.Edge, 0, len(root.Edges)),
	}
	for _, n := range root.Nodes {
		node := workflow.Node{
			ID:             n.ID,
			ModelID:        n.Model,
			ModelName:      n.ModelName,
			PromptTemplate: n.Prompt,
		}
		if node.ModelName == "" {
			node.ModelName = n.Model
		}
		if node.PromptTemplate == "" {
			node.PromptTemplate = template.InputPlaceholder
		}
		if n.Position != nil {
			node.Position = &workflow.Position{X: n.Position.X, Y: n.Position.Y}
		}
		wf.Nodes = append(wf.Nodes, node)
	}
	for _, e := range root.Edges {
		wf.Edges = append(wf.Edges, workflow.Edge{
			ID:     e.Source + "-" + e.Target,
			Source: e.Source,
			Target: e.Target,
		})
	}

	params := provider.DefaultParams()
	if root.Generation != nil {
		if root.Generation.MaxTokens != nil {
			params.MaxTokens = *root.Generation.MaxTokens
		}
		if root.Generation.Temperature != nil {
			params.Temperature = *root.Generation.Temperature
		}
	}

	logger.Debug("Workflow definition decoded.",
		"file", filename, "nodes", len(wf.Nodes), "edges", len(wf.Edges))
	return wf, params, nil
}

// evalContext exposes the built-in generation defaults so a workflow file
// can reference them explicitly, e.g. `max_tokens = defaults.max_tokens`.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"defaults": cty.ObjectVal(map[string]cty.Value{
				"max_tokens":  cty.NumberIntVal(provider.DefaultMaxTokens),
				"temperature": cty.NumberFloatVal(provider.DefaultTemperature),
			}),
		},
	}
}
