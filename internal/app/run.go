package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/promptgridgo/internal/ctxlog"
	"github.com/vk/promptgridgo/internal/executor"
	"github.com/vk/promptgridgo/internal/hcl"
	"github.com/vk/promptgridgo/internal/provider"
	"github.com/vk/promptgridgo/internal/registry"
	"github.com/vk/promptgridgo/internal/workflow"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, cfg *AppConfig) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.HealthcheckPort > 0 {
		a.startHealthcheckServer(cfg.HealthcheckPort)
	}

	wf, params, err := a.loadWorkflow(ctx, cfg)
	if err != nil {
		return err
	}
	a.logger.Debug("Workflow definition loaded.",
		"nodes", len(wf.Nodes), "edges", len(wf.Edges))

	if cfg.ValidateOnly {
		if err := workflow.Validate(wf); err != nil {
			return fmt.Errorf("workflow is invalid: %w", err)
		}
		a.logger.Info("✅ Workflow is structurally valid.", "nodes", len(wf.Nodes))
		return nil
	}

	invoker, err := a.registry.Build(cfg.Provider, registry.BackendConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.InvokeTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to build provider: %w", err)
	}

	exec := executor.New(invoker, params, cfg.MaxInFlight)
	report := exec.Run(ctx, wf, cfg.Input)

	encoder := json.NewEncoder(a.outW)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !report.Success {
		return fmt.Errorf("workflow rejected: %s", report.Error)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// loadWorkflow reads the definition file, dispatching on its extension, and
// applies CLI generation-parameter overrides.
func (a *App) loadWorkflow(ctx context.Context, cfg *AppConfig) (*workflow.Workflow, provider.Params, error) {
	var (
		wf     *workflow.Workflow
		params = provider.DefaultParams()
	)

	switch strings.ToLower(filepath.Ext(cfg.WorkflowPath)) {
	case ".json":
		data, err := os.ReadFile(cfg.WorkflowPath)
		if err != nil {
			return nil, params, fmt.Errorf("failed to read workflow file: %w", err)
		}
		wf, err = workflow.ParseJSON(data)
		if err != nil {
			return nil, params, err
		}
	default:
		var err error
		wf, params, err = hcl.NewLoader().LoadFile(ctx, cfg.WorkflowPath)
		if err != nil {
			return nil, params, err
		}
	}

	if cfg.MaxTokens > 0 {
		params.MaxTokens = cfg.MaxTokens
	}
	if cfg.Temperature >= 0 {
		params.Temperature = cfg.Temperature
	}
	return wf, params, nil
}
