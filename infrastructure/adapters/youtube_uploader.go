package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"content-factory/application/ports/outbound"
	"content-factory/config"
	"content-factory/domain"

	"golang.org/x/time/rate"
)

type youtubeSnippet struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	CategoryID  string   `json:"categoryId"`
}

type youtubeStatus struct {
	PrivacyStatus string `json:"privacyStatus"`
	PublishAt     string `json:"publishAt,omitempty"`
}

type youtubeVideoResource struct {
	ID      string         `json:"id,omitempty"`
	Snippet youtubeSnippet `json:"snippet"`
	Status  youtubeStatus  `json:"status"`
}

type youtubeUploader struct {
	ContentFetcher
	logger        outbound.LoggerPort
	youtubeConfig *config.YoutubeConfig
	tokenSource   TokenSource
	limiter       *rate.Limiter
}

// NewYoutubeUploader performs at most one upload attempt per call; retrying a
// failed upload is a caller decision. The limiter paces calls so batch runs
// stay inside the provider's quota.
func NewYoutubeUploader(contentFetcher ContentFetcher, youtubeConfig *config.YoutubeConfig,
	tokenSource TokenSource, logger outbound.LoggerPort) outbound.VideoUploaderPort {
	uploadsPerMinute := youtubeConfig.UploadsPerMinute
	if uploadsPerMinute < 1 {
		uploadsPerMinute = 1
	}
	return &youtubeUploader{
		ContentFetcher: contentFetcher,
		logger:         logger,
		youtubeConfig:  youtubeConfig,
		tokenSource:    tokenSource,
		limiter:        rate.NewLimiter(rate.Every(time.Minute/time.Duration(uploadsPerMinute)), 1),
	}
}

func (y *youtubeUploader) Upload(ctx context.Context, asset *domain.GenerationResult, publish domain.PublishRequest) (*outbound.UploadVideoResponse, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, domain.NewPipelineError(domain.ErrUploadFailed, "upload cancelled while waiting for quota", err)
	}

	token, err := y.tokenSource.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := y.assetPayload(ctx, asset)
	if err != nil {
		return nil, err
	}

	body, contentType, err := y.multipartBody(asset, publish, payload)
	if err != nil {
		return nil, domain.NewPipelineError(domain.ErrUploadFailed, "failed to build upload body", err)
	}

	url := y.youtubeConfig.UploadUrl + "?uploadType=multipart&part=snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, domain.NewPipelineError(domain.ErrUploadFailed, "failed to create upload request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	status, resBody, err := y.Do(req)
	if err != nil {
		return nil, domain.NewPipelineError(domain.ErrUploadFailed, "failed to reach upload endpoint", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, y.classify(status, resBody)
	}

	var resource youtubeVideoResource
	if err := json.Unmarshal(resBody, &resource); err != nil {
		return nil, domain.NewPipelineError(domain.ErrUploadFailed, "failed to decode upload response", err)
	}
	if resource.ID == "" {
		return nil, domain.NewPipelineError(domain.ErrUploadFailed, "upload response carried no video id", nil)
	}

	y.logger.InfoWithFields("video uploaded", map[string]interface{}{
		"video_id":   resource.ID,
		"visibility": resource.Status.PrivacyStatus,
	})

	return &outbound.UploadVideoResponse{
		VideoID:    resource.ID,
		Visibility: domain.Visibility(resource.Status.PrivacyStatus),
	}, nil
}

func (y *youtubeUploader) assetPayload(ctx context.Context, asset *domain.GenerationResult) ([]byte, error) {
	if asset.Metadata.LocalPath != "" {
		payload, err := os.ReadFile(asset.Metadata.LocalPath)
		if err != nil {
			return nil, domain.NewPipelineError(domain.ErrUploadFailed, "failed to read local asset file", err)
		}
		return payload, nil
	}

	if strings.HasPrefix(asset.AssetLocation, "http://") || strings.HasPrefix(asset.AssetLocation, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.AssetLocation, nil)
		if err != nil {
			return nil, domain.NewPipelineError(domain.ErrUploadFailed, "failed to create asset download request", err)
		}
		payload, err := y.FetchContent(req)
		if err != nil {
			return nil, domain.NewPipelineError(domain.ErrUploadFailed, "failed to download generated asset", err)
		}
		return payload, nil
	}

	return nil, domain.NewPipelineError(domain.ErrUploadFailed,
		fmt.Sprintf("asset location %q is not retrievable", asset.AssetLocation), nil)
}

// multipartBody builds the multipart/related request. A scheduled publish is
// created private-until-publish: publishAt takes precedence over the static
// visibility flag until the schedule elapses.
func (y *youtubeUploader) multipartBody(asset *domain.GenerationResult, publish domain.PublishRequest, payload []byte) (*bytes.Buffer, string, error) {
	categoryID := publish.CategoryID
	if categoryID == "" {
		categoryID = y.youtubeConfig.DefaultCategoryID
	}

	status := youtubeStatus{PrivacyStatus: string(publish.Visibility)}
	if publish.PublishAt != nil {
		status.PrivacyStatus = string(domain.VisibilityPrivate)
		status.PublishAt = publish.PublishAt.UTC().Format(time.RFC3339)
	}

	resource := youtubeVideoResource{
		Snippet: youtubeSnippet{
			Title:       publish.Title,
			Description: publish.Description,
			Tags:        publish.Tags,
			CategoryID:  categoryID,
		},
		Status: status,
	}

	metadata, err := json.Marshal(resource)
	if err != nil {
		return nil, "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := metaPart.Write(metadata); err != nil {
		return nil, "", err
	}

	mimeType := asset.Metadata.MimeType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := mediaPart.Write(payload); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, "multipart/related; boundary=" + writer.Boundary(), nil
}

func (y *youtubeUploader) classify(status int, body []byte) error {
	message := fmt.Sprintf("upload endpoint returned status %d", status)
	var kind domain.ErrorKind
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.ErrAuthFailed
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = domain.ErrValidationFailed
	default:
		kind = domain.ErrUploadFailed
	}
	return domain.NewPipelineError(kind, message, nil).WithDetail("body", string(body))
}
