package services

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/explorationlab/explorations/internal/blob"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

type AssetService struct {
	blobs blob.Storage
}

func NewAssetService(blobs blob.Storage) *AssetService {
	return &AssetService{blobs: blobs}
}

// SaveImage stores an image for an exploration. Only image content is accepted.
func (s *AssetService) SaveImage(ctx context.Context, explorationID, filename string, data []byte) error {
	if len(data) == 0 {
		return srvErrors.NewValidationError("no image supplied")
	}
	key, err := imageKey(explorationID, filename)
	if err != nil {
		return err
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return srvErrors.NewValidationError("%s is not an image", filename)
	}
	return s.blobs.Put(ctx, key, contentType, data)
}

func (s *AssetService) GetImage(ctx context.Context, explorationID, filename string) ([]byte, string, error) {
	key, err := imageKey(explorationID, filename)
	if err != nil {
		return nil, "", err
	}
	return s.blobs.Get(ctx, key)
}

func imageKey(explorationID, filename string) (string, error) {
	if filename == "" || filename != path.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", srvErrors.NewValidationError("invalid filename %q", filename)
	}
	return path.Join("explorations", explorationID, "assets", "image", filename), nil
}
