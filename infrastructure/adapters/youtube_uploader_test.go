package adapters

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"content-factory/config"
	"content-factory/domain"
)

type staticTokenSource struct {
	token string
	err   error
}

func (s staticTokenSource) AccessToken(context.Context) (string, error) {
	return s.token, s.err
}

func testUploader(t *testing.T, handler http.HandlerFunc, tokenSource TokenSource) *youtubeUploader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := NewZerologWrapper()
	return NewYoutubeUploader(NewContentFetcher(logger), &config.YoutubeConfig{
		ClientID:          "client-id",
		ClientSecret:      "client-secret",
		RefreshToken:      "refresh-token",
		UploadUrl:         server.URL + "/upload/youtube/v3/videos",
		DefaultVisibility: domain.VisibilityPrivate,
		DefaultCategoryID: "22",
		UploadsPerMinute:  600,
	}, tokenSource, logger).(*youtubeUploader)
}

func localAsset(t *testing.T) *domain.GenerationResult {
	t.Helper()
	path := filepath.Join(t.TempDir(), "asset.mp4")
	if err := os.WriteFile(path, []byte("video payload"), 0o600); err != nil {
		t.Fatal("failed to write asset:", err)
	}
	return &domain.GenerationResult{
		JobID:         "operations/op-1",
		AssetLocation: path,
		Status:        domain.GenerationCompleted,
		Metadata: domain.GenerationMetadata{
			Provider:  "veo",
			MimeType:  "video/mp4",
			LocalPath: path,
		},
	}
}

func publicPublish() domain.PublishRequest {
	return domain.PublishRequest{
		Title:       "Lighthouse Storm",
		Description: "A lighthouse weathers a violent storm.",
		Tags:        []string{"storm", "lighthouse"},
		Visibility:  domain.VisibilityPublic,
	}
}

func TestUploadSucceeds(t *testing.T) {
	var captured string
	uploader := testUploader(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer access-token" {
			t.Errorf("authorization header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); !strings.HasPrefix(got, "multipart/related") {
			t.Errorf("content type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"yt-video-1","status":{"privacyStatus":"public"}}`))
	}, staticTokenSource{token: "access-token"})

	res, err := uploader.Upload(context.Background(), localAsset(t), publicPublish())
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if res.VideoID != "yt-video-1" {
		t.Fatalf("VideoID = %q", res.VideoID)
	}
	if res.Visibility != domain.VisibilityPublic {
		t.Fatalf("Visibility = %q", res.Visibility)
	}
	if !strings.Contains(captured, `"privacyStatus":"public"`) {
		t.Fatal("metadata part missing public privacy status")
	}
	if !strings.Contains(captured, `"title":"Lighthouse Storm"`) {
		t.Fatal("metadata part missing title")
	}
	if !strings.Contains(captured, "video payload") {
		t.Fatal("media part missing asset payload")
	}
	if !strings.Contains(captured, `"categoryId":"22"`) {
		t.Fatal("metadata part missing default category")
	}
}

func TestUploadScheduledPublishIsPrivateUntilPublish(t *testing.T) {
	var captured string
	uploader := testUploader(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"yt-video-2","status":{"privacyStatus":"private"}}`))
	}, staticTokenSource{token: "access-token"})

	publishAt := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	publish := publicPublish()
	publish.PublishAt = &publishAt

	res, err := uploader.Upload(context.Background(), localAsset(t), publish)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !strings.Contains(captured, `"privacyStatus":"private"`) {
		t.Fatal("scheduled upload must be private until publish")
	}
	if strings.Contains(captured, `"privacyStatus":"public"`) {
		t.Fatal("static visibility must not override scheduling")
	}
	if !strings.Contains(captured, `"publishAt":"2030-06-01T12:00:00Z"`) {
		t.Fatal("publishAt missing from metadata")
	}
	if res.Visibility != domain.VisibilityPrivate {
		t.Fatalf("interim visibility = %q, want private", res.Visibility)
	}
}

func TestUploadClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   domain.ErrorKind
	}{
		{"quota or permission", http.StatusForbidden, domain.ErrAuthFailed},
		{"expired token", http.StatusUnauthorized, domain.ErrAuthFailed},
		{"malformed metadata", http.StatusBadRequest, domain.ErrValidationFailed},
		{"provider error", http.StatusInternalServerError, domain.ErrUploadFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uploader := testUploader(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}, staticTokenSource{token: "access-token"})

			_, err := uploader.Upload(context.Background(), localAsset(t), publicPublish())
			if domain.KindOf(err) != tc.want {
				t.Fatalf("kind = %q, want %q (err: %v)", domain.KindOf(err), tc.want, err)
			}
		})
	}
}

func TestUploadTokenFailurePropagatesAsAuthFailed(t *testing.T) {
	authErr := domain.NewPipelineError(domain.ErrAuthFailed, "token refresh rejected", nil)
	uploader := testUploader(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upload endpoint must not be reached when token acquisition fails")
	}, staticTokenSource{err: authErr})

	_, err := uploader.Upload(context.Background(), localAsset(t), publicPublish())
	if domain.KindOf(err) != domain.ErrAuthFailed {
		t.Fatalf("expected AuthFailed, got %v", err)
	}
}

func TestUploadUnretrievableAsset(t *testing.T) {
	uploader := testUploader(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upload endpoint must not be reached for an unretrievable asset")
	}, staticTokenSource{token: "access-token"})

	asset := &domain.GenerationResult{
		JobID:         "mock-1",
		AssetLocation: "mock://videos/mock-1.mp4",
		Status:        domain.GenerationCompleted,
	}

	_, err := uploader.Upload(context.Background(), asset, publicPublish())
	if domain.KindOf(err) != domain.ErrUploadFailed {
		t.Fatalf("expected UploadFailed, got %v", err)
	}
}

func TestUploadDownloadsRemoteAsset(t *testing.T) {
	assetServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote payload"))
	}))
	t.Cleanup(assetServer.Close)

	var captured string
	uploader := testUploader(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"yt-video-3","status":{"privacyStatus":"public"}}`))
	}, staticTokenSource{token: "access-token"})

	asset := &domain.GenerationResult{
		JobID:         "operations/op-9",
		AssetLocation: assetServer.URL + "/op-9.mp4",
		Status:        domain.GenerationCompleted,
	}

	if _, err := uploader.Upload(context.Background(), asset, publicPublish()); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !strings.Contains(captured, "remote payload") {
		t.Fatal("remote asset payload missing from upload body")
	}
}
