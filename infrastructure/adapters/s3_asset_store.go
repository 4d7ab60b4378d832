package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"content-factory/application/ports/outbound"
	"content-factory/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

type s3AssetStore struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

// NewS3AssetStore archives locally kept generated assets under
// runs/{jobID}. The local file is removed after a successful archive.
func NewS3AssetStore(logger outbound.LoggerPort, s3Svc *s3.S3, s3Config *config.S3Config) outbound.AssetStorePort {
	return &s3AssetStore{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3AssetStore) Archive(ctx context.Context, params outbound.ArchiveAssetParams) (*outbound.ArchiveAssetResponse, error) {
	file, err := os.Open(params.LocalPath)
	if err != nil {
		s.logger.Error(err, "Failed to open local asset file")
		return nil, err
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			s.logger.Error(err, "Failed to close local asset file")
		}
	}(file)

	assetKey := s.assetKey(params)

	putInput := &s3.PutObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(assetKey),
		Body:   file,
	}
	if params.MimeType != "" {
		putInput.ContentType = aws.String(params.MimeType)
	}

	if _, err := s.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		s.logger.Error(err, "Failed to upload asset to S3")
		return nil, err
	}

	if err := os.Remove(params.LocalPath); err != nil {
		s.logger.Error(err, "Failed to remove local asset file after archive")
	}

	return &outbound.ArchiveAssetResponse{
		AssetKey:    assetKey,
		StoreRegion: s.s3Config.Region,
	}, nil
}

func (s *s3AssetStore) assetKey(params outbound.ArchiveAssetParams) string {
	return fmt.Sprintf("runs/%s/%s", filepath.Base(params.JobID), filepath.Base(params.LocalPath))
}
