package gcp

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

func TestLocalDownloadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("ID3data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	bs, err := NewBucketService(logger.Nop(), ObjectStorageConfig{Mode: ObjectStorageModeLocal, LocalDir: dir})
	if err != nil {
		t.Fatalf("NewBucketService: %v", err)
	}
	defer bs.Close()

	r, attrs, err := bs.DownloadFile(context.Background(), "a.mp3")
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	body, _ := io.ReadAll(r)
	r.Close()
	if string(body) != "ID3data" || attrs.Size != 7 {
		t.Fatalf("unexpected object %q %+v", body, attrs)
	}

	for _, key := range []string{"missing.mp3", "sub", "../../etc/passwd"} {
		if _, _, err := bs.DownloadFile(context.Background(), key); !errors.Is(err, ErrObjectNotFound) {
			t.Fatalf("%s: expected ErrObjectNotFound, got %v", key, err)
		}
	}
}
