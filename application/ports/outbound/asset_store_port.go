package outbound

import "context"

type ArchiveAssetParams struct {
	JobID     string
	LocalPath string
	MimeType  string
}

type ArchiveAssetResponse struct {
	AssetKey    string
	StoreRegion string
}

// AssetStorePort archives a locally kept generated asset to durable storage.
type AssetStorePort interface {
	Archive(ctx context.Context, params ArchiveAssetParams) (*ArchiveAssetResponse, error)
}
