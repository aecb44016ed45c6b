package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quonaro/portfolio-backend/config"
	"github.com/quonaro/portfolio-backend/errs"
)

// ObjectStore holds uploaded project media and resolves their public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	EnsureBucket(ctx context.Context) error
}

// New builds the store selected by settings.Driver.
func New(ctx context.Context, settings config.StorageSettings) (ObjectStore, error) {
	switch settings.Driver {
	case "s3":
		return NewS3Store(ctx, settings)
	case "minio":
		return NewMinioStore(settings)
	case "", "none":
		return Disabled{}, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", settings.Driver)
}

// NewObjectKey returns "<unix millis>-<random token><ext>" for an uploaded file name.
func NewObjectKey(fileName string, now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), token, strings.ToLower(filepath.Ext(fileName)))
}

// PublicURL joins base and key, e.g. the Supabase public object prefix and the key.
func PublicURL(base, bucket, key string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return "/" + bucket + "/" + key
	}
	return base + "/" + key
}

// Disabled rejects every upload; used when no object store is configured.
type Disabled struct{}

func (Disabled) Upload(_ context.Context, _ string, _ io.Reader, _ int64, _ string) (string, error) {
	return "", errs.ErrStoreUnavailable
}

func (Disabled) EnsureBucket(_ context.Context) error {
	return nil
}
