package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/pickteum-api/internal/models"
)

func strPtr(s string) *string { return &s }

func statusPtr(s models.ArticleStatus) *models.ArticleStatus { return &s }

func TestValidateArticleInput(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		input      *models.ArticleInput
		wantErrors int
		wantFields []string
	}{
		{
			name: "valid input with all fields",
			input: &models.ArticleInput{
				Title:        strPtr("Hello, World"),
				Content:      strPtr("<p>body</p>"),
				CategoryID:   strPtr("550e8400-e29b-41d4-a716-446655440000"),
				Status:       statusPtr(models.StatusScheduled),
				Slug:         strPtr("hello-world"),
				ThumbnailURL: strPtr("https://cdn.pickteum.com/media/a.png"),
				Tags:         []string{"go", "뉴스"},
			},
			wantErrors: 0,
		},
		{
			name:       "empty input is valid for partial updates",
			input:      &models.ArticleInput{},
			wantErrors: 0,
		},
		{
			name: "empty strings clear optional fields",
			input: &models.ArticleInput{
				CategoryID:   strPtr(""),
				Slug:         strPtr(""),
				ThumbnailURL: strPtr(""),
			},
			wantErrors: 0,
		},
		{
			name:       "invalid status",
			input:      &models.ArticleInput{Status: statusPtr("archived")},
			wantErrors: 1,
			wantFields: []string{"status"},
		},
		{
			name:       "invalid slug",
			input:      &models.ArticleInput{Slug: strPtr("Hello World")},
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name:       "invalid category id",
			input:      &models.ArticleInput{CategoryID: strPtr("politics")},
			wantErrors: 1,
			wantFields: []string{"category_id"},
		},
		{
			name:       "empty tag",
			input:      &models.ArticleInput{Tags: []string{"go", ""}},
			wantErrors: 1,
			wantFields: []string{"tags[1]"},
		},
		{
			name: "multiple validation errors",
			input: &models.ArticleInput{
				Status:       statusPtr("unknown"),
				Slug:         strPtr("-bad-"),
				ThumbnailURL: strPtr("not a url"),
			},
			wantErrors: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Struct(tt.input)

			var errs Errors
			if err != nil && !errors.As(err, &errs) {
				t.Fatalf("Expected validation.Errors, got %T: %v", err, err)
			}
			if len(errs) != tt.wantErrors {
				t.Errorf("Struct() got %d errors, want %d. Errors: %v", len(errs), tt.wantErrors, errs)
			}

			for _, wantField := range tt.wantFields {
				found := false
				for _, e := range errs {
					if e.Field == wantField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("Expected error for field '%s' but not found in %v", wantField, errs)
				}
			}
		})
	}
}

func TestValidateCategoryInput(t *testing.T) {
	validator := NewValidator()

	if err := validator.Struct(&models.CategoryInput{Name: "경제", Color: "#f59e0b", SortOrder: 2}); err != nil {
		t.Errorf("Expected valid category, got %v", err)
	}

	err := validator.Struct(&models.CategoryInput{Name: "", Color: "orange"})
	var errs Errors
	if !errors.As(err, &errs) || len(errs) != 2 {
		t.Errorf("Expected 2 errors (name, color), got %v", err)
	}
}

func TestValidateLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name        string
		status      models.ArticleStatus
		publishedAt *time.Time
		rescheduled bool
		wantErrors  int
	}{
		{"draft without time", models.StatusDraft, nil, true, 0},
		{"published in the past", models.StatusPublished, &past, true, 0},
		{"published without time defaults later", models.StatusPublished, nil, true, 0},
		{"published in the future", models.StatusPublished, &future, true, 1},
		{"scheduled in the future", models.StatusScheduled, &future, true, 0},
		{"scheduled without time", models.StatusScheduled, nil, true, 1},
		{"scheduled in the past", models.StatusScheduled, &past, true, 1},
		{"untouched scheduled article already due", models.StatusScheduled, &past, false, 0},
		{"unknown status", models.ArticleStatus("archived"), nil, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLifecycle(tt.status, tt.publishedAt, now, tt.rescheduled)
			if len(errs) != tt.wantErrors {
				t.Errorf("ValidateLifecycle() got %d errors, want %d: %v", len(errs), tt.wantErrors, errs)
			}
		})
	}
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{{Field: "title", Message: "is required"}, {Field: "slug", Message: "duplicate slug"}}
	want := "validation failed: title: is required; slug: duplicate slug"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}
}
