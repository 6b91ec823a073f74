package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/promptgridgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated AppConfig,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.AppConfig, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("promptgridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
PromptGridGo - A declarative, concurrency-first prompt workflow runner.

Usage:
  promptgridgo [options] [WORKFLOW_PATH]

Arguments:
  WORKFLOW_PATH
    Path to a workflow definition file (.hcl or .json).

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow definition file.")
	wFlag := flagSet.String("w", "", "Path to the workflow definition file (shorthand).")
	inputFlag := flagSet.String("input", "", "User input substituted for {input} placeholders.")
	iFlag := flagSet.String("i", "", "User input (shorthand).")
	providerFlag := flagSet.String("provider", "ollama", "Model backend to invoke. Options: 'ollama', 'openai', 'echo'.")
	baseURLFlag := flagSet.String("base-url", "", "Override the provider's default server address.")
	apiKeyFlag := flagSet.String("api-key", "", "API key for hosted backends.")
	invokeTimeoutFlag := flagSet.Duration("invoke-timeout", 0, "Client-side limit for a single model call. 0 is disabled.")
	maxInFlightFlag := flagSet.Int("max-in-flight", 0, "Cap on concurrent model calls within a layer. 0 is unbounded.")
	maxTokensFlag := flagSet.Int("max-tokens", 0, "Override the workflow's max_tokens generation parameter. 0 keeps the file's value.")
	temperatureFlag := flagSet.Float64("temperature", -1, "Override the workflow's temperature generation parameter. Negative keeps the file's value.")
	validateOnlyFlag := flagSet.Bool("validate-only", false, "Validate the workflow structure and exit without executing.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *workflowFlag != "" {
		path = *workflowFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Workflow path determined.", "path", path)

	if path == "" {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	input := *inputFlag
	if input == "" {
		input = *iFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *maxInFlightFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid max-in-flight: must be zero or positive"}
	}
	if *invokeTimeoutFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid invoke-timeout: must be zero or positive"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.AppConfig{
		WorkflowPath:    path,
		Input:           input,
		Provider:        strings.ToLower(*providerFlag),
		BaseURL:         *baseURLFlag,
		APIKey:          *apiKeyFlag,
		InvokeTimeout:   *invokeTimeoutFlag,
		MaxInFlight:     *maxInFlightFlag,
		MaxTokens:       *maxTokensFlag,
		Temperature:     *temperatureFlag,
		ValidateOnly:    *validateOnlyFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
