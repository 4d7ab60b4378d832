package config

import (
	"fmt"
	"os"
	"strconv"

	"content-factory/domain"
)

const (
	defaultTokenEndpoint = "https://oauth2.googleapis.com/token"
	defaultUploadUrl     = "https://www.googleapis.com/upload/youtube/v3/videos"
	defaultCategoryID    = "22"
)

type YoutubeConfig struct {
	ClientID          string
	ClientSecret      string
	RefreshToken      string
	TokenEndpoint     string
	UploadUrl         string
	DefaultVisibility domain.Visibility
	DefaultCategoryID string
	UploadsPerMinute  int
}

// GetYoutubeConfig fails when any OAuth credential is absent; the caller then
// reports upload outcomes as skipped instead of attempting uploads.
func GetYoutubeConfig() (*YoutubeConfig, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID must be set")
	}
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_SECRET must be set")
	}
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")
	if refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_REFRESH_TOKEN must be set")
	}

	tokenEndpoint := os.Getenv("YOUTUBE_TOKEN_ENDPOINT")
	if tokenEndpoint == "" {
		tokenEndpoint = defaultTokenEndpoint
	}
	uploadUrl := os.Getenv("YOUTUBE_UPLOAD_URL")
	if uploadUrl == "" {
		uploadUrl = defaultUploadUrl
	}

	visibility := domain.Visibility(os.Getenv("YOUTUBE_DEFAULT_VISIBILITY"))
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if !visibility.IsValid() {
		return nil, fmt.Errorf("YOUTUBE_DEFAULT_VISIBILITY must be public, private or unlisted")
	}

	categoryID := os.Getenv("YOUTUBE_DEFAULT_CATEGORY_ID")
	if categoryID == "" {
		categoryID = defaultCategoryID
	}

	uploadsPerMinute := 2
	if raw := os.Getenv("YOUTUBE_UPLOADS_PER_MINUTE"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			return nil, fmt.Errorf("failed to parse YOUTUBE_UPLOADS_PER_MINUTE")
		}
		uploadsPerMinute = val
	}

	return &YoutubeConfig{
		ClientID:          clientID,
		ClientSecret:      clientSecret,
		RefreshToken:      refreshToken,
		TokenEndpoint:     tokenEndpoint,
		UploadUrl:         uploadUrl,
		DefaultVisibility: visibility,
		DefaultCategoryID: categoryID,
		UploadsPerMinute:  uploadsPerMinute,
	}, nil
}
