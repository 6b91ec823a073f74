// Package cli parses command-line arguments into an app.AppConfig, validates
// user input, and owns process-level concerns like usage text and exit codes.
package cli
