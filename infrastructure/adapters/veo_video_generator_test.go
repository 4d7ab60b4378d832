package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"content-factory/config"
	"content-factory/domain"
)

func testVeoGenerator(t *testing.T, handler http.HandlerFunc) (*veoVideoGenerator, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := NewZerologWrapper()
	return &veoVideoGenerator{
		ContentFetcher: NewContentFetcher(logger),
		logger:         logger,
		veoConfig: &config.VeoConfig{
			ApiUrl:       server.URL,
			ApiKey:       "test-key",
			Model:        "veo-3",
			Project:      "test-project",
			Region:       "us-central1",
			PollInterval: 10 * time.Millisecond,
			PollBudget:   40 * time.Millisecond,
		},
		sleep: func(context.Context, time.Duration) error { return nil },
	}, server
}

func veoRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Prompt:          "a lighthouse in a storm",
		AspectRatio:     domain.AspectRatioPortrait,
		DurationSeconds: 8,
	}
}

func TestVeoGenerateCompletes(t *testing.T) {
	generator, _ := testVeoGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, ":predictLongRunning"):
			if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
				t.Errorf("api key header = %q", got)
			}
			var body veoSubmitRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Error("failed to decode submit body:", err)
			}
			if body.Parameters.DurationSeconds != 8 || body.Parameters.AspectRatio != "9:16" {
				t.Errorf("unexpected parameters: %+v", body.Parameters)
			}
			_ = json.NewEncoder(w).Encode(veoOperation{Name: "operations/op-1"})
		default:
			_ = json.NewEncoder(w).Encode(veoOperation{
				Name: "operations/op-1",
				Done: true,
				Response: &veoResponse{Videos: []veoVideo{{
					Uri:      "https://videos.example/op-1.mp4",
					MimeType: "video/mp4",
				}}},
			})
		}
	})

	result, err := generator.Generate(context.Background(), veoRequest())
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if result.JobID != "operations/op-1" {
		t.Fatalf("JobID = %q", result.JobID)
	}
	if result.AssetLocation != "https://videos.example/op-1.mp4" {
		t.Fatalf("AssetLocation = %q", result.AssetLocation)
	}
	if result.Status != domain.GenerationCompleted {
		t.Fatalf("Status = %q", result.Status)
	}
	if result.Metadata.Mock {
		t.Fatal("live result must not be tagged mock")
	}
	if result.Metadata.Provider != veoProviderName || result.Metadata.Model != "veo-3" {
		t.Fatalf("unexpected metadata: %+v", result.Metadata)
	}
}

func TestVeoGeneratePollsUntilDone(t *testing.T) {
	polls := 0
	generator, _ := testVeoGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, ":predictLongRunning") {
			_ = json.NewEncoder(w).Encode(veoOperation{Name: "operations/op-2"})
			return
		}
		polls++
		operation := veoOperation{Name: "operations/op-2"}
		if polls >= 3 {
			operation.Done = true
			operation.Response = &veoResponse{Videos: []veoVideo{{Uri: "https://videos.example/op-2.mp4"}}}
		}
		_ = json.NewEncoder(w).Encode(operation)
	})

	if _, err := generator.Generate(context.Background(), veoRequest()); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if polls < 3 {
		t.Fatalf("polled %d times, want at least 3", polls)
	}
}

func TestVeoGenerateTimeoutWhenNeverTerminal(t *testing.T) {
	generator, _ := testVeoGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, ":predictLongRunning") {
			_ = json.NewEncoder(w).Encode(veoOperation{Name: "operations/op-3"})
			return
		}
		_ = json.NewEncoder(w).Encode(veoOperation{Name: "operations/op-3"})
	})

	_, err := generator.Generate(context.Background(), veoRequest())
	if err == nil {
		t.Fatal("expected an error")
	}
	if domain.KindOf(err) != domain.ErrGenerationTimeout {
		t.Fatalf("expected GenerationTimeout, got %v", err)
	}
}

func TestVeoGenerateProviderFailure(t *testing.T) {
	generator, _ := testVeoGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, ":predictLongRunning") {
			_ = json.NewEncoder(w).Encode(veoOperation{Name: "operations/op-4"})
			return
		}
		_ = json.NewEncoder(w).Encode(veoOperation{
			Name: "operations/op-4",
			Done: true,
			Error: &veoOperationError{
				Code:    3,
				Status:  "INVALID_ARGUMENT",
				Message: "prompt blocked by safety filter",
			},
		})
	})

	_, err := generator.Generate(context.Background(), veoRequest())
	if domain.KindOf(err) != domain.ErrGenerationFailed {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "prompt blocked by safety filter") {
		t.Fatalf("provider detail lost: %v", err)
	}
}

func TestVeoGenerateSubmitRejected(t *testing.T) {
	generator, _ := testVeoGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad model"}}`))
	})

	_, err := generator.Generate(context.Background(), veoRequest())
	if domain.KindOf(err) != domain.ErrGenerationFailed {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}
}

func TestVeoGenerateKeepsLocalFile(t *testing.T) {
	payload := []byte("fake video bytes")
	generator, _ := testVeoGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, ":predictLongRunning") {
			_ = json.NewEncoder(w).Encode(veoOperation{Name: "operations/op-5"})
			return
		}
		_ = json.NewEncoder(w).Encode(veoOperation{
			Name: "operations/op-5",
			Done: true,
			Response: &veoResponse{Videos: []veoVideo{{
				BytesBase64Encoded: base64.StdEncoding.EncodeToString(payload),
				MimeType:           "video/mp4",
			}}},
		})
	})

	req := veoRequest()
	req.KeepLocalFile = true

	result, err := generator.Generate(context.Background(), req)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if result.Metadata.LocalPath == "" {
		t.Fatal("expected a local file path")
	}
	t.Cleanup(func() { _ = os.Remove(result.Metadata.LocalPath) })

	written, err := os.ReadFile(result.Metadata.LocalPath)
	if err != nil {
		t.Fatal("failed to read kept file:", err)
	}
	if string(written) != string(payload) {
		t.Fatal("kept file content mismatch")
	}
	if result.AssetLocation != result.Metadata.LocalPath {
		t.Fatalf("AssetLocation = %q, want local path", result.AssetLocation)
	}
}
