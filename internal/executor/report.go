package executor

// NodeResult is the final outcome of a single node. Output and Error are
// mutually exclusive; both serialize as null when unset so reports match
// previously persisted files.
type NodeResult struct {
	ModelID   string  `json:"model_id"`
	ModelName string  `json:"model_name"`
	Output    *string `json:"output"`
	Error     *string `json:"error"`
	// ExecutionTime is the wall-clock duration of this node's model call, in
	// seconds. Zero for nodes that never invoked the model.
	ExecutionTime float64 `json:"execution_time"`
}

// Report is the aggregate result of one workflow execution.
//
// Success reflects whether execution ran to completion: a validation failure
// sets it to false and fills Error before any node runs. Per-node failures
// leave Success true; callers inspect Nodes for those.
type Report struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Nodes maps node id to its result. Complete whenever Success is true,
	// even under cancellation.
	Nodes map[string]*NodeResult `json:"nodes"`
	// TotalExecutionTime is the wall-clock duration of the whole run, in
	// seconds.
	TotalExecutionTime float64 `json:"total_execution_time"`
	Layers             int     `json:"layers"`
}

func validationFailure(err error) *Report {
	return &Report{
		Success: false,
		Error:   err.Error(),
		Nodes:   map[string]*NodeResult{},
	}
}
