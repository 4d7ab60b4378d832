package outbound

import (
	"context"

	"content-factory/domain"
)

type VideoGeneratorPort interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}
