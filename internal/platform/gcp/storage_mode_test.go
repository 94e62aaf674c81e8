package gcp

import (
	"errors"
	"testing"
)

func TestResolveObjectStorageConfigDefaultLocal(t *testing.T) {
	cfg, err := ResolveObjectStorageConfig("", ObjectStorageConfig{LocalDir: "/srv/audio"})
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfig: %v", err)
	}
	if cfg.Mode != ObjectStorageModeLocal {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeLocal, cfg.Mode)
	}
}

func TestResolveObjectStorageConfigBucketImpliesGCS(t *testing.T) {
	cfg, err := ResolveObjectStorageConfig("", ObjectStorageConfig{Bucket: "audio"})
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfig: %v", err)
	}
	if cfg.Mode != ObjectStorageModeGCS {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeGCS, cfg.Mode)
	}
}

func TestResolveObjectStorageConfigEmulatorFallback(t *testing.T) {
	cfg, err := ResolveObjectStorageConfig("", ObjectStorageConfig{Bucket: "audio", EmulatorHost: "http://fake-gcs:4443"})
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfig: %v", err)
	}
	if !cfg.IsEmulatorMode() {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeGCSEmulator, cfg.Mode)
	}
}

func TestResolveObjectStorageConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		mode string
		cfg  ObjectStorageConfig
		code ObjectStorageConfigErrorCode
	}{
		{"invalid mode", "s3", ObjectStorageConfig{Bucket: "a"}, ObjectStorageConfigErrorInvalidMode},
		{"gcs without bucket", "gcs", ObjectStorageConfig{}, ObjectStorageConfigErrorMissingBucket},
		{"local without dir", "local", ObjectStorageConfig{}, ObjectStorageConfigErrorMissingLocalDir},
		{"emulator without host", "gcs_emulator", ObjectStorageConfig{Bucket: "a"}, ObjectStorageConfigErrorMissingEmulatorHost},
		{"emulator bad host", "gcs_emulator", ObjectStorageConfig{Bucket: "a", EmulatorHost: "fake-gcs:4443"}, ObjectStorageConfigErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveObjectStorageConfig(tc.mode, tc.cfg)
			var cfgErr *ObjectStorageConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Code != tc.code {
				t.Fatalf("expected %q, got %v", tc.code, err)
			}
		})
	}
}
