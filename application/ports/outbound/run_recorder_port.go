package outbound

import (
	"context"

	"content-factory/domain"
)

type RecordRunParams struct {
	RunID      string
	Prompt     string
	Result     *domain.PipelineResult
	BatchIndex int
}

// RunRecorderPort persists an activity record per pipeline run. Recording is
// best effort: the pipeline logs failures and moves on.
type RunRecorderPort interface {
	Record(ctx context.Context, params RecordRunParams) error
}
