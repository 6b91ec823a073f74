// Package executor orchestrates the end-to-end execution of a validated
// workflow: layers run strictly sequentially, nodes within a layer run
// concurrently against the model-invocation provider, and every outcome is
// captured as data in the final report, never thrown across the package
// boundary.
package executor
