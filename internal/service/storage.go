package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/phambaophuc/krakenio-client/internal/config"
	kraken "github.com/phambaophuc/krakenio-client/pkg/models"
	"github.com/phambaophuc/krakenio-client/pkg/utils"
	storage_go "github.com/supabase-community/storage-go"
)

// StorageService copies optimized images out of the service's short-lived
// download links into a Supabase bucket.
type StorageService struct {
	sbClient    *storage_go.Client
	bucket      string
	maxFileSize int64
	download    func(ctx context.Context, url string, maxSize int64) ([]byte, string, error)
}

func NewStorageService(cfg *config.Config) *StorageService {
	sbClient := storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)

	return &StorageService{
		sbClient:    sbClient,
		bucket:      cfg.Supabase.BUCKET,
		maxFileSize: cfg.Mirror.MaxFileSize,
		download:    utils.DownloadImage,
	}
}

// Mirror downloads result.KrakedURL and uploads it to the bucket. It returns
// the public URL of the copy.
func (s *StorageService) Mirror(ctx context.Context, jobID string, result *kraken.UploadResult) (string, error) {
	data, contentType, err := s.download(ctx, result.KrakedURL, s.maxFileSize)
	if err != nil {
		return "", err
	}

	filename := result.FileName
	if filename == "" {
		filename = utils.GenerateFilename(jobID, strings.TrimPrefix(filepath.Ext(result.KrakedURL), "."))
	}
	key := utils.GenerateStorageKey(filename)

	_, err = s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to supabase: %w", contentType, err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

func (s *StorageService) HealthCheck(ctx context.Context) string {
	_, err := s.sbClient.ListFiles(s.bucket, "", storage_go.FileSearchOptions{})
	if err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
