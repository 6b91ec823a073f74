// Package workflow defines the passive graph model for a prompt workflow
// (nodes, edges, the workflow itself) together with its structural
// validation and topological layering.
//
// A workflow is owned by the caller for the duration of one execution
// request. Nothing in this package mutates a workflow; validation and
// layering are pure functions and safe to call concurrently.
package workflow
