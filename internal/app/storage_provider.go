package app

import (
	"errors"
	"fmt"

	"github.com/accentdojo/accentdojo-backend/internal/platform/gcp"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

var newBucketService = gcp.NewBucketService

const StorageProviderBootstrapErrorConnectFailed = "connect_failed"

// StorageProviderBootstrapError carries the config error code, or
// connect_failed when the backend itself could not be reached.
type StorageProviderBootstrapError struct {
	Code  string
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "audio storage bootstrap failed"
	}
	return fmt.Sprintf("audio storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func resolveBucketService(log *logger.Logger, cfg Config) (gcp.BucketService, gcp.ObjectStorageConfig, error) {
	storageCfg, err := gcp.ResolveObjectStorageConfig(cfg.AudioStorageMode, gcp.ObjectStorageConfig{
		Bucket:       cfg.AudioBucket,
		LocalDir:     cfg.AudioDir,
		EmulatorHost: cfg.StorageEmulatorHost,
		Credentials:  cfg.GoogleCredentials,
	})
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error("Audio storage selection failed", "mode", cfg.AudioStorageMode, "error", classified)
		return nil, storageCfg, classified
	}

	log.Info("Selecting audio storage", "mode", storageCfg.Mode, "bucket", storageCfg.Bucket, "dir", storageCfg.LocalDir)
	bucket, err := newBucketService(log, storageCfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error("Audio storage bootstrap failed", "mode", storageCfg.Mode, "error", classified)
		return nil, storageCfg, classified
	}
	return bucket, storageCfg, nil
}

func classifyStorageProviderBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) && cfgErr.Code != "" {
		code = string(cfgErr.Code)
	}
	return &StorageProviderBootstrapError{Code: code, Mode: string(storageCfg.Mode), Cause: err}
}
