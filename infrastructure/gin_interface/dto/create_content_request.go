package dto

import (
	"time"

	"content-factory/application/ports/inbound"
	"content-factory/domain"
)

// CreateContentRequest is the boundary contract. Schema-level checks live in
// the binding tags; defaults are applied in ToPipelineRequest.
type CreateContentRequest struct {
	Prompt          string   `json:"prompt" binding:"required"`
	AspectRatio     string   `json:"aspect_ratio" binding:"omitempty,oneof=9:16 16:9 1:1"`
	DurationSeconds int      `json:"duration_seconds" binding:"omitempty,min=3,max=120"`
	NegativePrompt  string   `json:"negative_prompt"`
	StylePreset     string   `json:"style_preset"`
	AudioPrompt     string   `json:"audio_prompt"`
	Title           string   `json:"title" binding:"omitempty,min=3"`
	Description     string   `json:"description" binding:"omitempty,min=10"`
	Tags            []string `json:"tags"`
	Visibility      string   `json:"visibility" binding:"omitempty,oneof=public private unlisted"`
	PublishAt       string   `json:"publish_at" binding:"omitempty"`
	CategoryID      string   `json:"category_id"`
	UploadToYoutube bool     `json:"upload_to_youtube"`
	KeepLocalFile   bool     `json:"keep_local_file"`
}

type CreateBatchRequest struct {
	CreateContentRequest
	Count int `json:"count" binding:"omitempty,min=1,max=20"`
}

func (r CreateContentRequest) ToPipelineRequest() (inbound.ContentFactoryRequest, error) {
	aspectRatio := domain.AspectRatio(r.AspectRatio)
	if r.AspectRatio == "" {
		aspectRatio = domain.DefaultAspectRatio
	}

	durationSeconds := r.DurationSeconds
	if durationSeconds == 0 {
		durationSeconds = domain.DefaultDurationSeconds
	}

	var publishAt *time.Time
	if r.PublishAt != "" {
		parsed, err := time.Parse(time.RFC3339, r.PublishAt)
		if err != nil {
			return inbound.ContentFactoryRequest{}, err
		}
		publishAt = &parsed
	}

	return inbound.ContentFactoryRequest{
		Prompt:          r.Prompt,
		AspectRatio:     aspectRatio,
		DurationSeconds: durationSeconds,
		NegativePrompt:  r.NegativePrompt,
		StylePreset:     r.StylePreset,
		AudioPrompt:     r.AudioPrompt,
		Title:           r.Title,
		Description:     r.Description,
		Tags:            r.Tags,
		Visibility:      domain.Visibility(r.Visibility),
		PublishAt:       publishAt,
		CategoryID:      r.CategoryID,
		UploadToYoutube: r.UploadToYoutube,
		KeepLocalFile:   r.KeepLocalFile,
	}, nil
}
