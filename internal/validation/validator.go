package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/slug"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a list of field errors usable as an error value
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks request payloads at the API boundary
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the article rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// An empty slug asks for one derived from the title
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || slug.Valid(s)
	})
	// An empty category id or thumbnail clears the field
	v.RegisterValidation("category_ref", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := uuid.Parse(s)
		return err == nil && len(s) == 36
	})
	v.RegisterValidation("clearable_url", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	})
	v.RegisterValidation("article_status", func(fl validator.FieldLevel) bool {
		return models.ValidStatuses[models.ArticleStatus(fl.Field().String())]
	})

	return &Validator{validate: v}
}

// Struct validates s, returning Errors when any rule fails
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe),
			Message: message(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace ("ArticleInput.tags[0]" -> "tags[0]")
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "uuid", "category_ref":
		return "invalid UUID format"
	case "url", "clearable_url":
		return "invalid URL"
	case "hexcolor":
		return "must be a hex color such as #ff0000"
	case "slug":
		return "slug must contain only lowercase letters, digits, Korean syllables and single hyphens"
	case "article_status":
		return "invalid status, must be one of: draft, published, scheduled"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// ValidateLifecycle checks the status/published_at invariants of an article about to be written.
// rescheduled is true when the status or publish time was changed by this write; an untouched
// scheduled article whose time has passed is left for the sweep to publish.
func ValidateLifecycle(status models.ArticleStatus, publishedAt *time.Time, now time.Time, rescheduled bool) []ValidationError {
	var errs []ValidationError

	switch status {
	case models.StatusDraft:
		// published_at is cleared for drafts; nothing to check
	case models.StatusPublished:
		if publishedAt != nil && publishedAt.After(now) {
			errs = append(errs, ValidationError{
				Field:   "published_at",
				Message: "published articles must not have a future published_at; use status scheduled",
				Value:   publishedAt.Format(time.RFC3339),
			})
		}
	case models.StatusScheduled:
		if publishedAt == nil {
			errs = append(errs, ValidationError{Field: "published_at", Message: "scheduled articles require published_at"})
		} else if rescheduled && !publishedAt.After(now) {
			errs = append(errs, ValidationError{
				Field:   "published_at",
				Message: "scheduled publish time must be in the future",
				Value:   publishedAt.Format(time.RFC3339),
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "status",
			Message: "invalid status, must be one of: draft, published, scheduled",
			Value:   string(status),
		})
	}

	return errs
}
