package services

import (
	"context"
	"fmt"
	"time"

	"content-factory/application/ports/inbound"
	"content-factory/application/ports/outbound"
	"content-factory/domain"

	"github.com/google/uuid"
)

// ModeConfig is the per-process provider selection state, injected once at
// construction so leaf adapters never read the environment themselves.
type ModeConfig struct {
	MockPipeline             bool
	HasGenerationCredentials bool
	HasUploadCredentials     bool
	ForceLiveUpload          bool
}

// ProviderSet pairs a generator with its matching uploader so a run never
// silently mixes mock generation with live upload.
type ProviderSet struct {
	Generator outbound.VideoGeneratorPort
	Uploader  outbound.VideoUploaderPort
}

type contentFactoryPipeline struct {
	logger     outbound.LoggerPort
	mode       ModeConfig
	live       ProviderSet
	mock       ProviderSet
	recorder   outbound.RunRecorderPort
	assetStore outbound.AssetStorePort
	now        func() time.Time
}

// NewContentFactoryPipeline wires the orchestrator. recorder and assetStore
// are optional; pass nil to disable them.
func NewContentFactoryPipeline(
	logger outbound.LoggerPort,
	mode ModeConfig,
	live ProviderSet,
	mock ProviderSet,
	recorder outbound.RunRecorderPort,
	assetStore outbound.AssetStorePort) inbound.ContentFactoryPipelinePort {
	return &contentFactoryPipeline{
		logger:     logger,
		mode:       mode,
		live:       live,
		mock:       mock,
		recorder:   recorder,
		assetStore: assetStore,
		now:        time.Now,
	}
}

func (p *contentFactoryPipeline) Run(ctx context.Context, request inbound.ContentFactoryRequest) (*domain.PipelineResult, error) {
	genReq, publish, err := p.normalize(request)
	if err != nil {
		return nil, err
	}

	// The mock decision is made once and applies to both legs of the run.
	useMock := p.mode.MockPipeline || !p.mode.HasGenerationCredentials

	generator := p.live.Generator
	if useMock {
		generator = p.mock.Generator
	}

	started := p.now()

	video, err := generator.Generate(ctx, genReq)
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.NewPipelineError(domain.ErrGenerationFailed, "video generation failed", err)
		}
		p.logger.ErrorWithFields(err, "generation leg failed", map[string]interface{}{
			"mock": useMock,
		})
		return nil, err
	}
	if video.Status != domain.GenerationCompleted {
		err := domain.NewPipelineError(domain.ErrGenerationFailed,
			fmt.Sprintf("generation job %s ended in status %s", video.JobID, video.Status), nil)
		p.logger.Error(err, "generation leg failed")
		return nil, err
	}

	youtube := p.runUploadLeg(ctx, request, useMock, video, publish)

	result := &domain.PipelineResult{
		Video:      video,
		Youtube:    youtube,
		DurationMs: p.now().Sub(started).Milliseconds(),
	}

	p.recordRun(ctx, request, result)
	p.archiveAsset(ctx, video)

	return result, nil
}

func (p *contentFactoryPipeline) normalize(request inbound.ContentFactoryRequest) (domain.GenerationRequest, domain.PublishRequest, error) {
	if request.Prompt == "" {
		return domain.GenerationRequest{}, domain.PublishRequest{},
			domain.NewPipelineError(domain.ErrValidationFailed, "prompt must not be empty", nil)
	}

	aspectRatio := request.AspectRatio
	if aspectRatio == "" {
		aspectRatio = domain.DefaultAspectRatio
	}
	if !aspectRatio.IsValid() {
		return domain.GenerationRequest{}, domain.PublishRequest{},
			domain.NewPipelineError(domain.ErrValidationFailed,
				fmt.Sprintf("unsupported aspect ratio %q", aspectRatio), nil)
	}

	visibility := request.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if !visibility.IsValid() {
		return domain.GenerationRequest{}, domain.PublishRequest{},
			domain.NewPipelineError(domain.ErrValidationFailed,
				fmt.Sprintf("unsupported visibility %q", visibility), nil)
	}

	if request.UploadToYoutube {
		if len(request.Title) < 3 {
			return domain.GenerationRequest{}, domain.PublishRequest{},
				domain.NewPipelineError(domain.ErrValidationFailed, "title must be at least 3 characters", nil)
		}
		if len(request.Description) < 10 {
			return domain.GenerationRequest{}, domain.PublishRequest{},
				domain.NewPipelineError(domain.ErrValidationFailed, "description must be at least 10 characters", nil)
		}
	}

	genReq := domain.GenerationRequest{
		Prompt:          request.Prompt,
		AspectRatio:     aspectRatio,
		DurationSeconds: domain.ClampDuration(request.DurationSeconds),
		NegativePrompt:  request.NegativePrompt,
		StylePreset:     request.StylePreset,
		AudioPrompt:     request.AudioPrompt,
		KeepLocalFile:   request.KeepLocalFile,
	}

	publish := domain.PublishRequest{
		Title:       request.Title,
		Description: request.Description,
		Tags:        domain.NormalizeTags(request.Tags),
		Visibility:  visibility,
		PublishAt:   request.PublishAt,
		CategoryID:  request.CategoryID,
	}

	return genReq, publish, nil
}

// runUploadLeg never returns an error: upload failures are captured inside
// the outcome so a successfully generated asset is not lost to the caller.
func (p *contentFactoryPipeline) runUploadLeg(ctx context.Context, request inbound.ContentFactoryRequest,
	useMock bool, video *domain.GenerationResult, publish domain.PublishRequest) *domain.UploadOutcome {
	if !request.UploadToYoutube {
		return domain.SkippedOutcome(domain.SkipReasonNotRequested)
	}
	if useMock && !p.mode.ForceLiveUpload {
		return domain.SkippedOutcome(domain.SkipReasonMockMode)
	}
	if !p.mode.HasUploadCredentials {
		return domain.SkippedOutcome(domain.SkipReasonMissingCredentials)
	}
	if err := ctx.Err(); err != nil {
		p.logger.Info("run cancelled before upload leg")
		return domain.FailedOutcome(err)
	}

	uploader := p.live.Uploader
	res, err := uploader.Upload(ctx, video, publish)
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.NewPipelineError(domain.ErrUploadFailed, "video upload failed", err)
		}
		p.logger.ErrorWithFields(err, "upload leg failed", map[string]interface{}{
			"job_id": video.JobID,
		})
		return domain.FailedOutcome(err)
	}

	return domain.UploadedOutcome(res.VideoID, res.Visibility)
}

func (p *contentFactoryPipeline) recordRun(ctx context.Context, request inbound.ContentFactoryRequest, result *domain.PipelineResult) {
	if p.recorder == nil {
		return
	}
	err := p.recorder.Record(ctx, outbound.RecordRunParams{
		RunID:  uuid.NewString(),
		Prompt: request.Prompt,
		Result: result,
	})
	if err != nil {
		p.logger.Error(err, "failed to record pipeline run")
	}
}

func (p *contentFactoryPipeline) archiveAsset(ctx context.Context, video *domain.GenerationResult) {
	if p.assetStore == nil || video.Metadata.LocalPath == "" {
		return
	}
	res, err := p.assetStore.Archive(ctx, outbound.ArchiveAssetParams{
		JobID:     video.JobID,
		LocalPath: video.Metadata.LocalPath,
		MimeType:  video.Metadata.MimeType,
	})
	if err != nil {
		p.logger.Error(err, "failed to archive generated asset")
		return
	}
	p.logger.InfoWithFields("archived generated asset", map[string]interface{}{
		"job_id":    video.JobID,
		"asset_key": res.AssetKey,
	})
}
