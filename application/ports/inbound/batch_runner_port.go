package inbound

import (
	"context"

	"content-factory/domain"
)

type BatchParams struct {
	Request ContentFactoryRequest
	Count   int
}

// BatchItem reports the outcome of one iteration. Err is set when the run
// aborted; Result is set otherwise. Iterations are independent.
type BatchItem struct {
	Index  int
	Result *domain.PipelineResult
	Err    error
}

// BatchRunnerPort executes N sequential pipeline runs, one run fully
// completing before the next begins, and streams per-iteration items.
type BatchRunnerPort interface {
	Run(ctx context.Context, params BatchParams) (<-chan BatchItem, error)
}
