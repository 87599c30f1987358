package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// MaxEvidenceSize is the largest dispute attachment accepted.
const MaxEvidenceSize = 5 * 1024 * 1024

var evidenceExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// IsAllowedEvidenceType reports whether contentType may be attached to a dispute.
func IsAllowedEvidenceType(contentType string) bool {
	_, ok := evidenceExtensions[strings.ToLower(contentType)]
	return ok
}

// EvidenceObjectName builds the bucket path for a user's upload.
func EvidenceObjectName(userID, contentType string, now time.Time) string {
	ext, ok := evidenceExtensions[strings.ToLower(contentType)]
	if !ok {
		ext = ".bin"
	}
	return fmt.Sprintf("disputes/%s/%s-%s%s", userID, now.Format("20060102150405"), uuid.New().String(), ext)
}

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadEvidence stores a dispute attachment and returns its public URL.
func (c *CloudStorageClient) UploadEvidence(ctx context.Context, file io.Reader, contentType, userID string) (string, error) {
	if !IsAllowedEvidenceType(contentType) {
		return "", fmt.Errorf("unsupported evidence type %q", contentType)
	}

	name := EvidenceObjectName(userID, contentType, time.Now())
	obj := c.client.Bucket(c.bucketName).Object(name)

	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "private, max-age=86400"
	wc.Metadata = map[string]string{"uploadedBy": userID}

	if _, err := io.Copy(wc, io.LimitReader(file, MaxEvidenceSize+1)); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if attrs := wc.Attrs(); attrs != nil && attrs.Size > MaxEvidenceSize {
		_ = obj.Delete(ctx)
		return "", fmt.Errorf("evidence exceeds %d bytes", MaxEvidenceSize)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, name), nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
