package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"content-factory/application/ports/outbound"
	"content-factory/config"
	"content-factory/domain"
)

const veoProviderName = "veo"

type veoSubmitRequest struct {
	Instances  []veoInstance `json:"instances"`
	Parameters veoParameters `json:"parameters"`
}

type veoInstance struct {
	Prompt string `json:"prompt"`
}

type veoParameters struct {
	AspectRatio     string `json:"aspectRatio"`
	DurationSeconds int    `json:"durationSeconds"`
	SampleCount     int    `json:"sampleCount"`
	NegativePrompt  string `json:"negativePrompt,omitempty"`
	StylePreset     string `json:"stylePreset,omitempty"`
	AudioPrompt     string `json:"audioPrompt,omitempty"`
}

type veoOperation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Error    *veoOperationError `json:"error,omitempty"`
	Response *veoResponse       `json:"response,omitempty"`
}

type veoOperationError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type veoResponse struct {
	Videos []veoVideo `json:"videos"`
}

type veoVideo struct {
	Uri                string `json:"uri,omitempty"`
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

type veoVideoGenerator struct {
	ContentFetcher
	logger    outbound.LoggerPort
	veoConfig *config.VeoConfig
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewVeoVideoGenerator(contentFetcher ContentFetcher, veoConfig *config.VeoConfig, logger outbound.LoggerPort) outbound.VideoGeneratorPort {
	return &veoVideoGenerator{
		ContentFetcher: contentFetcher,
		logger:         logger,
		veoConfig:      veoConfig,
		sleep:          sleepWithContext,
	}
}

func (v *veoVideoGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	operationName, err := v.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	v.logger.InfoWithFields("generation job submitted", map[string]interface{}{
		"operation": operationName,
	})

	operation, err := v.awaitOperation(ctx, operationName)
	if err != nil {
		return nil, err
	}

	return v.toResult(operation, req)
}

func (v *veoVideoGenerator) submit(ctx context.Context, req domain.GenerationRequest) (string, error) {
	body := veoSubmitRequest{
		Instances: []veoInstance{{Prompt: req.Prompt}},
		Parameters: veoParameters{
			AspectRatio:     string(req.AspectRatio),
			DurationSeconds: req.DurationSeconds,
			SampleCount:     1,
			NegativePrompt:  req.NegativePrompt,
			StylePreset:     req.StylePreset,
			AudioPrompt:     req.AudioPrompt,
		},
	}

	jsonPayload, err := json.Marshal(body)
	if err != nil {
		return "", domain.NewPipelineError(domain.ErrGenerationFailed, "failed to marshal generation request", err)
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning", v.veoConfig.ApiUrl, v.veoConfig.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", domain.NewPipelineError(domain.ErrGenerationFailed, "failed to create submit request", err)
	}
	v.setHeaders(httpReq)

	status, payload, err := v.Do(httpReq)
	if err != nil {
		return "", domain.NewPipelineError(domain.ErrGenerationFailed, "failed to reach generation provider", err)
	}
	if status != http.StatusOK {
		return "", domain.NewPipelineError(domain.ErrGenerationFailed,
			fmt.Sprintf("generation provider rejected the job with status %d", status), nil).
			WithDetail("body", string(payload))
	}

	var operation veoOperation
	if err := json.Unmarshal(payload, &operation); err != nil {
		return "", domain.NewPipelineError(domain.ErrGenerationFailed, "failed to decode submit response", err)
	}
	if operation.Name == "" {
		return "", domain.NewPipelineError(domain.ErrGenerationFailed, "generation provider returned no operation name", nil)
	}

	return operation.Name, nil
}

// awaitOperation polls until the operation reaches a terminal state. The poll
// budget is a hard ceiling: once exhausted the call fails with
// GenerationTimeout, distinct from a provider-reported failure.
func (v *veoVideoGenerator) awaitOperation(ctx context.Context, operationName string) (*veoOperation, error) {
	deadline := time.Now().Add(v.veoConfig.PollBudget)
	interval := v.veoConfig.PollInterval
	maxInterval := v.veoConfig.PollInterval * 8

	for {
		operation, err := v.poll(ctx, operationName)
		if err != nil {
			return nil, err
		}
		if operation.Done {
			return operation, nil
		}

		if !time.Now().Add(interval).Before(deadline) {
			return nil, domain.NewPipelineError(domain.ErrGenerationTimeout,
				fmt.Sprintf("generation job did not complete within %s", v.veoConfig.PollBudget), nil).
				WithDetail("operation", operationName)
		}

		if err := v.sleep(ctx, interval); err != nil {
			return nil, domain.NewPipelineError(domain.ErrGenerationFailed, "generation polling interrupted", err)
		}

		if interval < maxInterval {
			interval *= 2
			if interval > maxInterval {
				interval = maxInterval
			}
		}
	}
}

func (v *veoVideoGenerator) poll(ctx context.Context, operationName string) (*veoOperation, error) {
	url := fmt.Sprintf("%s/%s", v.veoConfig.ApiUrl, operationName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewPipelineError(domain.ErrGenerationFailed, "failed to create poll request", err)
	}
	v.setHeaders(httpReq)

	payload, err := v.FetchContent(httpReq)
	if err != nil {
		return nil, domain.NewPipelineError(domain.ErrGenerationFailed, "failed to poll generation job", err)
	}

	var operation veoOperation
	if err := json.Unmarshal(payload, &operation); err != nil {
		return nil, domain.NewPipelineError(domain.ErrGenerationFailed, "failed to decode poll response", err)
	}

	return &operation, nil
}

func (v *veoVideoGenerator) toResult(operation *veoOperation, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if operation.Error != nil {
		return nil, domain.NewPipelineError(domain.ErrGenerationFailed, operation.Error.Message, nil).
			WithDetail("code", operation.Error.Code).
			WithDetail("status", operation.Error.Status)
	}
	if operation.Response == nil || len(operation.Response.Videos) == 0 {
		return nil, domain.NewPipelineError(domain.ErrGenerationFailed, "generation completed without a video asset", nil)
	}

	video := operation.Response.Videos[0]
	result := &domain.GenerationResult{
		JobID:         operation.Name,
		AssetLocation: video.Uri,
		Status:        domain.GenerationCompleted,
		Metadata: domain.GenerationMetadata{
			Provider: veoProviderName,
			Model:    v.veoConfig.Model,
			MimeType: video.MimeType,
		},
	}

	if req.KeepLocalFile && video.BytesBase64Encoded != "" {
		localPath, err := v.writeLocalFile(operation.Name, video.BytesBase64Encoded)
		if err != nil {
			v.logger.Error(err, "failed to keep local copy of generated asset")
		} else {
			result.Metadata.LocalPath = localPath
			if result.AssetLocation == "" {
				result.AssetLocation = localPath
			}
		}
	}

	return result, nil
}

func (v *veoVideoGenerator) writeLocalFile(operationName string, encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("veo-%s.mp4", filepath.Base(operationName)))
	if err := os.WriteFile(path, decoded, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

func (v *veoVideoGenerator) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", v.veoConfig.ApiKey)
	req.Header.Set("x-goog-user-project", v.veoConfig.Project)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
