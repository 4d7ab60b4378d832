package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"content-factory/application/ports/outbound"
	"content-factory/config"
	"content-factory/domain"
)

// expirySkew keeps a token from being used right at its expiry boundary.
const expirySkew = 30 * time.Second

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// TokenSource exchanges a long-lived refresh credential for a short-lived
// access token and caches it until expiry. Safe for concurrent use:
// last-valid-token-wins, a single refresh at a time.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type oauthTokenSource struct {
	ContentFetcher
	logger outbound.LoggerPort
	conf   *config.YoutubeConfig
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewOauthTokenSource(contentFetcher ContentFetcher, conf *config.YoutubeConfig, logger outbound.LoggerPort) TokenSource {
	return &oauthTokenSource{
		ContentFetcher: contentFetcher,
		logger:         logger,
		conf:           conf,
		now:            time.Now,
	}
}

func (s *oauthTokenSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Add(expirySkew).Before(s.expires) {
		return s.token, nil
	}

	token, expiresIn, err := s.refresh(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expires = s.now().Add(time.Duration(expiresIn) * time.Second)

	return s.token, nil
}

func (s *oauthTokenSource) refresh(ctx context.Context) (string, int, error) {
	s.logger.Info("refreshing upload access token")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", s.conf.ClientID)
	form.Set("client_secret", s.conf.ClientSecret)
	form.Set("refresh_token", s.conf.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.conf.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, domain.NewPipelineError(domain.ErrAuthFailed, "failed to create token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := s.Do(req)
	if err != nil {
		return "", 0, domain.NewPipelineError(domain.ErrAuthFailed, "failed to reach token endpoint", err)
	}
	if status != http.StatusOK {
		return "", 0, domain.NewPipelineError(domain.ErrAuthFailed, "token refresh rejected", nil).
			WithDetail("status", status).
			WithDetail("body", string(body))
	}

	var tokenResponse TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return "", 0, domain.NewPipelineError(domain.ErrAuthFailed, "failed to decode token response", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", 0, domain.NewPipelineError(domain.ErrAuthFailed, "token endpoint returned no access token", nil)
	}

	s.logger.Info("upload access token refreshed")

	return tokenResponse.AccessToken, tokenResponse.ExpiresIn, nil
}
