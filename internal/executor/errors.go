package executor

import (
	"errors"
	"fmt"
)

// Per-node execution errors. These never abort the workflow as a whole; they
// are contained to the node and its transitive dependents.
var (
	// ErrUpstreamFailed marks a node that was never invoked because a direct
	// predecessor failed, so its prompt could not be meaningfully built.
	ErrUpstreamFailed = errors.New("upstream failed")
	// ErrCancelled marks a node that was in flight or not yet started when
	// the run's context was cancelled.
	ErrCancelled = errors.New("cancelled")
)

func upstreamFailure(upstreamID string) error {
	return fmt.Errorf("%w: not executed because upstream node '%s' failed", ErrUpstreamFailed, upstreamID)
}

func cancelled(cause error) error {
	if cause == nil {
		return ErrCancelled
	}
	return fmt.Errorf("%w: %v", ErrCancelled, cause)
}
