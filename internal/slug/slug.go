// Package slug derives URL-safe article identifiers from titles.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when a title has no sluggable characters
const Fallback = "post"

// MaxLength bounds the base slug; collision suffixes may extend it
const MaxLength = 80

var lower = cases.Lower(language.Und)

// Make returns the slug of title: lowercase ASCII letters, digits and Hangul syllables,
// with every other run of characters collapsed into a single hyphen.
func Make(title string) string {
	normalized := lower.String(norm.NFC.String(title))

	var b strings.Builder
	b.Grow(len(normalized))
	pendingHyphen := false
	for _, r := range normalized {
		if !keep(r) {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	s := truncate(b.String(), MaxLength)
	if s == "" {
		return Fallback
	}
	return s
}

// ExistsFunc reports whether a slug is already taken
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base if it is free, otherwise the first free of base-1, base-2, ...
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// Valid reports whether s could have been produced by Make
func Valid(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if r != '-' && !keep(r) {
			return false
		}
	}
	return true
}

func keep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
		return true
	}
	return false
}

// truncate cuts s to at most max bytes on a rune boundary without leaving a trailing hyphen
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := 0
	for i := range s {
		if i > max {
			break
		}
		cut = i
	}
	return strings.TrimRightFunc(s[:cut], func(r rune) bool { return r == '-' || unicode.IsSpace(r) })
}
