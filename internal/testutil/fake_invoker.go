// Package testutil provides shared fakes for exercising the workflow
// executor without a real model backend.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vk/promptgridgo/internal/provider"
)

// ExecutionRecord holds the observed timing window of a single invocation.
type ExecutionRecord struct {
	Prompt string
	Start  time.Time
	End    time.Time
}

// Behavior scripts the outcome of invocations for one model id.
type Behavior struct {
	// Output returned on success. Defaults to "out:<model_id>" when empty
	// and Err is nil.
	Output string
	// Err fails the invocation.
	Err error
	// Delay is slept (context-aware) before returning.
	Delay time.Duration
}

// FakeInvoker is a scripted provider.Invoker that records every call. Safe
// for concurrent use.
type FakeInvoker struct {
	mu        sync.Mutex
	behaviors map[string]Behavior
	records   map[string]*ExecutionRecord

	inFlight    int
	maxInFlight int
}

// NewFakeInvoker creates a fake with per-model behaviors.
func NewFakeInvoker(behaviors map[string]Behavior) *FakeInvoker {
	if behaviors == nil {
		behaviors = map[string]Behavior{}
	}
	return &FakeInvoker{
		behaviors: behaviors,
		records:   make(map[string]*ExecutionRecord),
	}
}

// Name implements provider.Invoker.
func (f *FakeInvoker) Name() string { return "fake" }

// Invoke implements provider.Invoker following the scripted behavior for the
// model id.
func (f *FakeInvoker) Invoke(ctx context.Context, modelID, prompt string, _ provider.Params) (string, error) {
	b := f.behavior(modelID)

	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	start := time.Now()
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.records[modelID] = &ExecutionRecord{Prompt: prompt, Start: start, End: time.Now()}
		f.mu.Unlock()
	}()

	if b.Delay > 0 {
		select {
		case <-time.After(b.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if b.Err != nil {
		return "", b.Err
	}
	if b.Output != "" {
		return b.Output, nil
	}
	return fmt.Sprintf("out:%s", modelID), nil
}

func (f *FakeInvoker) behavior(modelID string) Behavior {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.behaviors[modelID]
}

// Record returns the timing record of a model's invocation, or nil if it was
// never called.
func (f *FakeInvoker) Record(modelID string) *ExecutionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[modelID]
}

// CallCount returns the number of distinct models invoked.
func (f *FakeInvoker) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// MaxObservedInFlight returns the peak number of concurrent invocations.
func (f *FakeInvoker) MaxObservedInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}
