package mock_provider

import (
	"context"
	"fmt"

	"content-factory/application/ports/outbound"
	"content-factory/domain"

	"github.com/google/uuid"
)

const providerName = "mock"

type mockVideoGenerator struct {
	logger outbound.LoggerPort
}

// NewMockVideoGenerator is the network-free stand-in used when mock mode is
// on or generation credentials are absent. Results are structurally valid and
// tagged Metadata.Mock so downstream consumers can adjust messaging.
func NewMockVideoGenerator(logger outbound.LoggerPort) outbound.VideoGeneratorPort {
	return &mockVideoGenerator{logger: logger}
}

func (m *mockVideoGenerator) Generate(_ context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	jobID := "mock-" + uuid.NewString()

	m.logger.InfoWithFields("mock generation", map[string]interface{}{
		"job_id":           jobID,
		"prompt":           req.Prompt,
		"duration_seconds": req.DurationSeconds,
	})

	return &domain.GenerationResult{
		JobID:         jobID,
		AssetLocation: fmt.Sprintf("mock://videos/%s.mp4", jobID),
		Status:        domain.GenerationCompleted,
		Metadata: domain.GenerationMetadata{
			Mock:     true,
			Provider: providerName,
			MimeType: "video/mp4",
		},
	}, nil
}

type mockVideoUploader struct {
	logger outbound.LoggerPort
}

// NewMockVideoUploader mints a synthetic video id without touching the
// network. It pairs with the mock generator so a mock run never mixes legs.
func NewMockVideoUploader(logger outbound.LoggerPort) outbound.VideoUploaderPort {
	return &mockVideoUploader{logger: logger}
}

func (m *mockVideoUploader) Upload(_ context.Context, asset *domain.GenerationResult, publish domain.PublishRequest) (*outbound.UploadVideoResponse, error) {
	videoID := "mock-" + uuid.NewString()[:8]

	m.logger.InfoWithFields("mock upload", map[string]interface{}{
		"video_id": videoID,
		"job_id":   asset.JobID,
		"title":    publish.Title,
	})

	return &outbound.UploadVideoResponse{
		VideoID:    videoID,
		Visibility: publish.Visibility,
	}, nil
}
