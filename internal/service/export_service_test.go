package service_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pickteum-api/internal/models"
)

func seedExport(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	for _, title := range []string{"One", "Two, with comma", "Three"} {
		if _, err := f.svc.Article.Create(ctx, &models.ArticleInput{Title: strPtr(title), Tags: []string{"a", "b"}}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	f.svc.Article.Create(ctx, &models.ArticleInput{Title: strPtr("Live"), Status: statusPtr(models.StatusPublished)})
}

func TestExportService_NDJSON(t *testing.T) {
	f := newFixture()
	seedExport(t, f)

	w := httptest.NewRecorder()
	if err := f.svc.Export.StreamArticles(context.Background(), w, "ndjson"); err != nil {
		t.Fatalf("StreamArticles failed: %v", err)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Expected ndjson content type, got %s", ct)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var a models.Article
		if err := json.Unmarshal([]byte(line), &a); err != nil {
			t.Errorf("Invalid JSON line %q: %v", line, err)
		}
	}
}

func TestExportService_JSON(t *testing.T) {
	f := newFixture()
	seedExport(t, f)

	w := httptest.NewRecorder()
	if err := f.svc.Export.StreamArticles(context.Background(), w, "json"); err != nil {
		t.Fatalf("StreamArticles failed: %v", err)
	}

	var articles []models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &articles); err != nil {
		t.Fatalf("Expected a JSON array: %v", err)
	}
	if len(articles) != 4 {
		t.Errorf("Expected 4 articles, got %d", len(articles))
	}
}

func TestExportService_CSV(t *testing.T) {
	f := newFixture()
	seedExport(t, f)

	w := httptest.NewRecorder()
	if err := f.svc.Export.StreamArticles(context.Background(), w, "csv"); err != nil {
		t.Fatalf("StreamArticles failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected header plus 4 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][2] != "title" {
		t.Errorf("Unexpected header %v", records[0])
	}

	found := false
	for _, r := range records[1:] {
		if r[2] == "Two, with comma" {
			found = true
			if r[6] != "a|b" {
				t.Errorf("Expected joined tags, got %q", r[6])
			}
		}
	}
	if !found {
		t.Error("Expected the quoted title to round-trip")
	}
}

func TestExportService_UnsupportedFormat(t *testing.T) {
	f := newFixture()

	if err := f.svc.Export.StreamArticles(context.Background(), httptest.NewRecorder(), "xml"); err == nil {
		t.Error("Expected an error for xml")
	}
}

func TestExportService_GetCounts(t *testing.T) {
	f := newFixture()
	seedExport(t, f)

	counts, err := f.svc.Export.GetCounts(context.Background())
	if err != nil {
		t.Fatalf("GetCounts failed: %v", err)
	}
	if counts[models.StatusDraft] != 3 || counts[models.StatusPublished] != 1 {
		t.Errorf("Unexpected counts %v", counts)
	}
	if v, ok := counts[models.StatusScheduled]; !ok || v != 0 {
		t.Errorf("Expected an explicit zero for scheduled, got %v", counts)
	}
}
