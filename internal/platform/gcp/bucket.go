package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

// ErrObjectNotFound is returned by every backend for a missing key.
var ErrObjectNotFound = errors.New("object not found")

type ObjectAttrs struct {
	Size        int64
	ContentType string
	Updated     time.Time
}

// BucketService reads audio objects by key from the configured backend.
type BucketService interface {
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, *ObjectAttrs, error)
	Close() error
}

func NewBucketService(log *logger.Logger, storageCfg ObjectStorageConfig) (BucketService, error) {
	if err := ValidateObjectStorageConfig(storageCfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	serviceLog := log.With("service", "BucketService")

	if storageCfg.Mode == ObjectStorageModeLocal {
		serviceLog.Info("Object storage initialized", "mode", storageCfg.Mode, "dir", storageCfg.LocalDir)
		return &localService{dir: storageCfg.LocalDir}, nil
	}

	stClient, err := newStorageClientForMode(context.Background(), storageCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog.Info(
		"Object storage initialized",
		"mode", storageCfg.Mode,
		"emulator_host", storageCfg.EmulatorHost,
		"bucket", storageCfg.Bucket,
	)
	return &bucketService{log: serviceLog, storageClient: stClient, bucket: storageCfg.Bucket}, nil
}

func newStorageClientForMode(ctx context.Context, storageCfg ObjectStorageConfig) (*storage.Client, error) {
	switch storageCfg.Mode {
	case ObjectStorageModeGCS:
		opts := ClientOptions(storageCfg.Credentials)
		opts = append(opts, option.WithScopes(storage.ScopeReadOnly))
		return storage.NewClient(ctx, opts...)
	case ObjectStorageModeGCSEmulator:
		endpoint := strings.TrimRight(strings.TrimSpace(storageCfg.EmulatorHost), "/")
		_ = os.Setenv("STORAGE_EMULATOR_HOST", endpoint)
		opts := []option.ClientOption{
			option.WithoutAuthentication(),
		}
		return storage.NewClient(ctx, opts...)
	default:
		return nil, &ObjectStorageConfigError{
			Code: ObjectStorageConfigErrorInvalidMode,
			Mode: string(storageCfg.Mode),
		}
	}
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
}

func (bs *bucketService) DownloadFile(ctx context.Context, key string) (io.ReadCloser, *ObjectAttrs, error) {
	obj := bs.storageClient.Bucket(bs.bucket).Object(key)
	r, err := obj.NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open GCS object %q in bucket %q: %w", key, bs.bucket, err)
	}
	return r, &ObjectAttrs{
		Size:        r.Attrs.Size,
		ContentType: r.Attrs.ContentType,
		Updated:     r.Attrs.LastModified,
	}, nil
}

func (bs *bucketService) Close() error { return bs.storageClient.Close() }

type localService struct {
	dir string
}

func (ls *localService) DownloadFile(_ context.Context, key string) (io.ReadCloser, *ObjectAttrs, error) {
	clean := filepath.Clean("/" + key)
	f, err := os.Open(filepath.Join(ls.dir, clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, nil, ErrObjectNotFound
	}
	return f, &ObjectAttrs{Size: st.Size(), Updated: st.ModTime()}, nil
}

func (ls *localService) Close() error { return nil }
