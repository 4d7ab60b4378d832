package outbound

import (
	"context"

	"content-factory/domain"
)

type UploadVideoResponse struct {
	VideoID    string
	Visibility domain.Visibility
}

type VideoUploaderPort interface {
	Upload(ctx context.Context, asset *domain.GenerationResult, publish domain.PublishRequest) (*UploadVideoResponse, error)
}
