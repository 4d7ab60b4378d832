package inbound

import (
	"context"
	"time"

	"content-factory/domain"
)

// ContentFactoryRequest is the boundary-validated union of generation and
// publish parameters for one pipeline run.
type ContentFactoryRequest struct {
	Prompt          string
	AspectRatio     domain.AspectRatio
	DurationSeconds int
	NegativePrompt  string
	StylePreset     string
	AudioPrompt     string

	Title       string
	Description string
	Tags        []string
	Visibility  domain.Visibility
	PublishAt   *time.Time
	CategoryID  string

	UploadToYoutube bool
	KeepLocalFile   bool
}

type ContentFactoryPipelinePort interface {
	Run(ctx context.Context, request ContentFactoryRequest) (*domain.PipelineResult, error)
}
