package domain

import (
	"strings"
	"time"
)

type AspectRatio string

const (
	AspectRatioPortrait  AspectRatio = "9:16"
	AspectRatioLandscape AspectRatio = "16:9"
	AspectRatioSquare    AspectRatio = "1:1"

	DefaultAspectRatio = AspectRatioPortrait
)

func (a AspectRatio) IsValid() bool {
	switch a {
	case AspectRatioPortrait, AspectRatioLandscape, AspectRatioSquare:
		return true
	default:
		return false
	}
}

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityUnlisted:
		return true
	default:
		return false
	}
}

const (
	MinDurationSeconds = 3
	MaxDurationSeconds = 120

	DefaultDurationSeconds = 15
)

// ClampDuration bounds a requested duration to the provider-accepted range
// before it reaches any network call.
func ClampDuration(seconds int) int {
	if seconds < MinDurationSeconds {
		return MinDurationSeconds
	}
	if seconds > MaxDurationSeconds {
		return MaxDurationSeconds
	}
	return seconds
}

// NormalizeTags strips a leading '#' from each tag, drops empties and
// deduplicates while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}

type GenerationRequest struct {
	Prompt          string
	AspectRatio     AspectRatio
	DurationSeconds int
	NegativePrompt  string
	StylePreset     string
	AudioPrompt     string
	KeepLocalFile   bool
}

type GenerationStatus string

const (
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

type GenerationMetadata struct {
	Mock      bool   `json:"mock"`
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
}

// GenerationResult is immutable once returned by a generator.
type GenerationResult struct {
	JobID         string             `json:"job_id"`
	AssetLocation string             `json:"asset_location"`
	Status        GenerationStatus   `json:"status"`
	Metadata      GenerationMetadata `json:"metadata"`
}

type PublishRequest struct {
	Title       string
	Description string
	Tags        []string
	Visibility  Visibility
	PublishAt   *time.Time
	CategoryID  string
}

type UploadStatus string

const (
	UploadUploaded UploadStatus = "uploaded"
	UploadSkipped  UploadStatus = "skipped"
	UploadFailed   UploadStatus = "failed"
)

const (
	SkipReasonNotRequested       = "not requested"
	SkipReasonMockMode           = "mock mode"
	SkipReasonMissingCredentials = "missing credentials"
)

// UploadOutcome is a tagged variant: VideoID/Visibility are set for uploaded,
// Reason for skipped, Cause for failed.
type UploadOutcome struct {
	Status     UploadStatus `json:"status"`
	VideoID    string       `json:"video_id,omitempty"`
	Visibility Visibility   `json:"visibility,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	Cause      string       `json:"cause,omitempty"`
}

func UploadedOutcome(videoID string, visibility Visibility) *UploadOutcome {
	return &UploadOutcome{
		Status:     UploadUploaded,
		VideoID:    videoID,
		Visibility: visibility,
	}
}

func SkippedOutcome(reason string) *UploadOutcome {
	return &UploadOutcome{
		Status: UploadSkipped,
		Reason: reason,
	}
}

func FailedOutcome(cause error) *UploadOutcome {
	return &UploadOutcome{
		Status: UploadFailed,
		Cause:  cause.Error(),
	}
}

// PipelineResult is the single object returned per run. It owns its nested
// results and is never mutated after construction.
type PipelineResult struct {
	Video      *GenerationResult `json:"video"`
	Youtube    *UploadOutcome    `json:"youtube"`
	DurationMs int64             `json:"duration_ms"`
}
