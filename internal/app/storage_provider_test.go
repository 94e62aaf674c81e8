package app

import (
	"errors"
	"testing"

	"github.com/accentdojo/accentdojo-backend/internal/platform/gcp"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"invalid mode", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidMode}, "invalid_mode"},
		{"missing emulator", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingEmulatorHost}, "missing_emulator_host"},
		{"connect", errors.New("dial tcp: refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCS}, tc.err)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if !errors.Is(err, tc.err) {
				t.Fatal("cause not unwrapped")
			}
		})
	}
}

func TestResolveBucketServiceLocal(t *testing.T) {
	bucket, storageCfg, err := resolveBucketService(logger.Nop(), Config{AudioDir: t.TempDir()})
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	defer bucket.Close()
	if storageCfg.Mode != gcp.ObjectStorageModeLocal {
		t.Fatalf("mode = %q, want local", storageCfg.Mode)
	}
}

func TestResolveBucketServiceConnectFailure(t *testing.T) {
	orig := newBucketService
	t.Cleanup(func() { newBucketService = orig })
	newBucketService = func(*logger.Logger, gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		return nil, errors.New("no credentials")
	}

	_, _, err := resolveBucketService(logger.Nop(), Config{AudioBucket: "audio"})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) || got.Code != StorageProviderBootstrapErrorConnectFailed || got.Mode != "gcs" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestResolveBucketServiceBadMode(t *testing.T) {
	_, _, err := resolveBucketService(logger.Nop(), Config{AudioStorageMode: "ftp", AudioDir: "x"})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) || got.Code != "invalid_mode" {
		t.Fatalf("unexpected error %v", err)
	}
}
