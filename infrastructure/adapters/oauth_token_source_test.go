package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"content-factory/config"
	"content-factory/domain"
)

func testTokenSource(t *testing.T, handler http.HandlerFunc) *oauthTokenSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := NewZerologWrapper()
	return &oauthTokenSource{
		ContentFetcher: NewContentFetcher(logger),
		logger:         logger,
		conf: &config.YoutubeConfig{
			ClientID:      "client-id",
			ClientSecret:  "client-secret",
			RefreshToken:  "refresh-token",
			TokenEndpoint: server.URL,
		},
		now: time.Now,
	}
}

func TestAccessTokenRefreshes(t *testing.T) {
	source := testTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Error("failed to parse form:", err)
		}
		if r.Form.Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q", r.Form.Get("grant_type"))
		}
		if r.Form.Get("refresh_token") != "refresh-token" {
			t.Errorf("refresh_token = %q", r.Form.Get("refresh_token"))
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "token-1",
			ExpiresIn:   3600,
			TokenType:   "Bearer",
		})
	})

	token, err := source.AccessToken(context.Background())
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if token != "token-1" {
		t.Fatalf("token = %q", token)
	}
}

func TestAccessTokenIsCachedUntilExpiry(t *testing.T) {
	refreshes := 0
	source := testTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		refreshes++
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "token-1", ExpiresIn: 3600})
	})

	for i := 0; i < 3; i++ {
		if _, err := source.AccessToken(context.Background()); err != nil {
			t.Fatal("unexpected error:", err)
		}
	}
	if refreshes != 1 {
		t.Fatalf("refreshed %d times, want 1", refreshes)
	}
}

func TestAccessTokenNotReusedPastExpiry(t *testing.T) {
	refreshes := 0
	source := testTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		refreshes++
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "token-1", ExpiresIn: 3600})
	})

	current := time.Unix(1700000000, 0)
	source.now = func() time.Time { return current }

	if _, err := source.AccessToken(context.Background()); err != nil {
		t.Fatal("unexpected error:", err)
	}

	current = current.Add(2 * time.Hour)

	if _, err := source.AccessToken(context.Background()); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if refreshes != 2 {
		t.Fatalf("refreshed %d times, want 2", refreshes)
	}
}

func TestAccessTokenRefreshRejected(t *testing.T) {
	source := testTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := source.AccessToken(context.Background())
	if domain.KindOf(err) != domain.ErrAuthFailed {
		t.Fatalf("expected AuthFailed, got %v", err)
	}
}
