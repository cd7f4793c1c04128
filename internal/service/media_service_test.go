package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
)

// pngBytes is a PNG signature followed by an IHDR chunk header, enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"), bytes.Repeat([]byte{0}, 64)...)

func upload(f *fixture, name string, body []byte) (*models.MediaAsset, error) {
	return f.svc.Media.Upload(context.Background(), &service.UploadRequest{
		Body:       bytes.NewReader(body),
		FileName:   name,
		Size:       int64(len(body)),
		UploadedBy: "admin",
	})
}

func TestMediaService_UploadImage(t *testing.T) {
	f := newFixture()

	asset, err := upload(f, "photo.png", pngBytes)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if asset.ContentType != "image/png" {
		t.Errorf("Expected image/png, got %s", asset.ContentType)
	}
	if !strings.HasPrefix(asset.StorageKey, "media/2025/03/") || !strings.HasSuffix(asset.StorageKey, ".png") {
		t.Errorf("Unexpected storage key %s", asset.StorageKey)
	}
	if asset.PublicURL != "https://cdn.test/"+asset.StorageKey {
		t.Errorf("Unexpected public URL %s", asset.PublicURL)
	}

	stored := f.objects.Objects[asset.StorageKey]
	if !bytes.Equal(stored, pngBytes) {
		t.Errorf("Stored object differs from the upload (%d vs %d bytes)", len(stored), len(pngBytes))
	}
	if _, ok := f.media.Assets[asset.ID]; !ok {
		t.Error("Expected asset record to be created")
	}
}

func TestMediaService_RejectsInvalidUploads(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name string
		file string
		body []byte
	}{
		{"empty file", "empty.png", nil},
		{"text disguised as image", "notes.png", []byte("just some text, not an image")},
		{"too large", "huge.png", append(append([]byte{}, pngBytes...), make([]byte, 5*1024*1024)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := upload(f, tt.file, tt.body)
			if !errors.Is(err, service.ErrInvalidMedia) {
				t.Errorf("Expected ErrInvalidMedia, got %v", err)
			}
		})
	}

	if len(f.objects.Objects) != 0 {
		t.Errorf("Expected nothing stored, got %d objects", len(f.objects.Objects))
	}
}

func TestMediaService_RemovesObjectWhenRecordFails(t *testing.T) {
	f := newFixture()
	f.media.InsertError = errors.New("insert failed")

	if _, err := upload(f, "photo.png", pngBytes); err == nil {
		t.Fatal("Expected an error")
	}
	if len(f.objects.Objects) != 0 {
		t.Errorf("Expected orphaned object removed, got %d objects", len(f.objects.Objects))
	}
}

func TestMediaService_ListComputesUsage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inline, _ := upload(f, "inline.png", pngBytes)
	thumb, _ := upload(f, "thumb.png", pngBytes)
	unused, _ := upload(f, "unused.png", pngBytes)

	article, err := f.svc.Article.Create(ctx, &models.ArticleInput{
		Title:        strPtr("With images"),
		Content:      strPtr(`<p><img src="` + inline.PublicURL + `"></p>`),
		ThumbnailURL: strPtr(thumb.PublicURL),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	assets, err := f.svc.Media.List(ctx, 1, 50)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("Expected 3 assets, got %d", len(assets))
	}

	usage := make(map[string][]string)
	for _, a := range assets {
		usage[a.ID] = a.UsedBy
	}
	if len(usage[inline.ID]) != 1 || usage[inline.ID][0] != article.ID {
		t.Errorf("Expected inline image used by %s, got %v", article.ID, usage[inline.ID])
	}
	if len(usage[thumb.ID]) != 1 {
		t.Errorf("Expected thumbnail used once, got %v", usage[thumb.ID])
	}
	if len(usage[unused.ID]) != 0 {
		t.Errorf("Expected unused image to have no usages, got %v", usage[unused.ID])
	}
}

func TestMediaService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	asset, _ := upload(f, "photo.png", pngBytes)

	if err := f.svc.Media.Delete(ctx, asset.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if f.objects.Has(asset.StorageKey) {
		t.Error("Expected object removed")
	}
	if err := f.svc.Media.Delete(ctx, asset.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
