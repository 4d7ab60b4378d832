package services

import (
	"context"

	"content-factory/application/ports/inbound"
	"content-factory/application/ports/outbound"
)

type batchRunner struct {
	logger     outbound.LoggerPort
	pipeline   inbound.ContentFactoryPipelinePort
	workerPool outbound.TaskDispatcher
}

// NewBatchRunner executes repeated pipeline runs strictly one after another.
// Sequential execution keeps provider rate limits and upload quota
// predictable and bounds resource usage to one in-flight job.
func NewBatchRunner(logger outbound.LoggerPort, pipeline inbound.ContentFactoryPipelinePort,
	workerPool outbound.TaskDispatcher) inbound.BatchRunnerPort {
	return &batchRunner{
		logger:     logger,
		pipeline:   pipeline,
		workerPool: workerPool,
	}
}

func (b *batchRunner) Run(ctx context.Context, params inbound.BatchParams) (<-chan inbound.BatchItem, error) {
	count := params.Count
	if count < 1 {
		count = 1
	}

	out := make(chan inbound.BatchItem)

	err := b.workerPool.Submit(func() {
		defer close(out)
		for i := 0; i < count; i++ {
			select {
			case <-ctx.Done():
				b.logger.Info("batch cancelled")
				return
			default:
			}

			result, err := b.pipeline.Run(ctx, params.Request)
			if err != nil {
				b.logger.ErrorWithFields(err, "batch iteration failed", map[string]interface{}{
					"index": i,
				})
			}

			select {
			case <-ctx.Done():
				return
			case out <- inbound.BatchItem{Index: i, Result: result, Err: err}:
			}
		}
	})
	if err != nil {
		b.logger.Error(err, "failed to submit batch to worker pool")
		return nil, err
	}

	return out, nil
}
