package review

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reviewhub/backend/internal/domain/shared"
)

// allowedMediaTypes are the content types accepted for review photos
// and videos
var allowedMediaTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

// ObjectStorageService defines the interface for object storage
// operations. Implemented by the S3 adapter in infrastructure/storage.
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file.
	// Returns the upload URL and expiration time
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// MediaServiceConfig holds presign expirations for review media
type MediaServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultMediaServiceConfig returns the default configuration
func DefaultMediaServiceConfig() MediaServiceConfig {
	return MediaServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// MediaService issues presigned URLs for review photo and video uploads
type MediaService struct {
	storage ObjectStorageService
	config  MediaServiceConfig
	logger  *zap.Logger
}

// NewMediaService creates a new MediaService
func NewMediaService(storage ObjectStorageService, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{
		storage: storage,
		config:  DefaultMediaServiceConfig(),
		logger:  logger,
	}
}

// SetConfig sets the service configuration
func (s *MediaService) SetConfig(config MediaServiceConfig) {
	s.config = config
}

// InitiateUploadRequest asks for a presigned upload slot for one file
type InitiateUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// InitiateUploadResponse carries the presigned upload URL
type InitiateUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// MediaURLResponse carries a presigned download URL for a stored object
type MediaURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InitiateUpload validates the content type and returns a presigned
// upload URL. Keys are namespaced per shop so one shop can never
// overwrite another's media.
func (s *MediaService) InitiateUpload(ctx context.Context, shop string, req InitiateUploadRequest) (*InitiateUploadResponse, error) {
	ext, ok := allowedMediaTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE",
			fmt.Sprintf("Content type %s is not allowed for review media", req.ContentType))
	}

	storageKey := fmt.Sprintf("reviews/%s/%s%s", shop, uuid.New().String(), ext)

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate upload url: %w", err)
	}

	s.logger.Info("Review media upload initiated",
		zap.String("shop", shop),
		zap.String("storage_key", storageKey),
		zap.String("content_type", req.ContentType),
	)

	return &InitiateUploadResponse{
		UploadURL:  url,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// DownloadURL returns a presigned download URL for a stored media
// object. The key must belong to the shop's namespace.
func (s *MediaService) DownloadURL(ctx context.Context, shop, storageKey string) (*MediaURLResponse, error) {
	if !strings.HasPrefix(path.Clean(storageKey), "reviews/"+shop+"/") {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this shop")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("check object: %w", err)
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate download url: %w", err)
	}

	return &MediaURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}
