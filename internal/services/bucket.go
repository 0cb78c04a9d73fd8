package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
)

// UploadService stores a blob under a key and returns its public URL.
type UploadService interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
	Close() error
}

type bucketService struct {
	log       *logger.Logger
	client    *storage.Client
	bucket    string
	cdnDomain string
}

// NewBucketService opens a GCS client against the given bucket. When
// cdnDomain is set, public URLs are served through it instead of the
// storage.googleapis.com origin.
func NewBucketService(ctx context.Context, log *logger.Logger, bucket, cdnDomain, credentialsFile string) (UploadService, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &bucketService{
		log:       log.With("service", "BucketService"),
		client:    client,
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}, nil
}

func (bs *bucketService) Upload(ctx context.Context, key string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := bs.client.Bucket(bs.bucket).Object(key).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", key, err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucket, key)
	if bs.cdnDomain != "" {
		url = fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	bs.log.Debug("uploaded object", "key", key, "bytes", len(data))
	return url, nil
}

func (bs *bucketService) Close() error {
	return bs.client.Close()
}
