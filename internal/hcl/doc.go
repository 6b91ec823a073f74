// Package hcl provides the HCL front-end for workflow definitions. It parses
// node, edge and generation blocks into the workflow model and the run's
// generation parameters; it performs no structural validation beyond what
// the syntax requires, leaving that to the workflow validator.
package hcl
