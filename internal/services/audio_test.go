package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/cache"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos/testutil"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/gcp"
)

func newLocalAudio(t *testing.T, buffer *cache.TempAudio) (AudioService, string, int64, int64) {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	narrator := testutil.SeedNarrator(t, ctx, db, "n", true)
	b := testutil.SeedBundle(t, ctx, db, "hashi", narrator.ID, 2)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, b.Files[0].File), []byte("ID3hashi"), 0o644); err != nil {
		t.Fatal(err)
	}
	bucket, err := gcp.NewBucketService(log, gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeLocal, LocalDir: dir})
	if err != nil {
		t.Fatalf("NewBucketService: %v", err)
	}
	t.Cleanup(func() { _ = bucket.Close() })

	svc := NewAudioService(db, log, repos.NewAudioRepo(db, log), bucket, buffer)
	return svc, dir, b.Files[0].ID, b.Files[1].ID
}

func TestAudioOpenLocal(t *testing.T) {
	svc, _, present, missing := newLocalAudio(t, nil)
	ctx := context.Background()

	obj, err := svc.Open(ctx, present)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(obj.Body)
	obj.Body.Close()
	if string(body) != "ID3hashi" || obj.ContentType != "audio/mpeg" || obj.Size != 8 {
		t.Fatalf("unexpected object %q %+v", body, obj)
	}

	if _, err := svc.Open(ctx, 9999); !apierr.HasCode(err, apierr.CodeNotFound) {
		t.Fatalf("unknown id = %v, want not found", err)
	}
	if _, err := svc.Open(ctx, missing); !apierr.HasCode(err, apierr.CodeDataIntegrity) {
		t.Fatalf("row without object = %v, want data integrity", err)
	}
}

func TestAudioOpenBuffersRemoteReads(t *testing.T) {
	buffer := cache.NewTempAudio(time.Minute)
	svc, dir, present, _ := newLocalAudio(t, buffer)
	ctx := context.Background()

	obj, err := svc.Open(ctx, present)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	obj.Body.Close()

	// Served from the buffer once the backing object is gone.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	obj, err = svc.Open(ctx, present)
	if err != nil {
		t.Fatalf("buffered Open: %v", err)
	}
	body, _ := io.ReadAll(obj.Body)
	if string(body) != "ID3hashi" {
		t.Fatalf("buffered body = %q", body)
	}
}
