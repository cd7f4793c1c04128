package service

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrSlugTaken is returned when an explicit slug collides with another article
	ErrSlugTaken = errors.New("slug already exists")

	// ErrCategoryNotFound is returned for unknown category names or ids
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameTaken is returned when a category name is already used
	ErrCategoryNameTaken = errors.New("category name already exists")

	// ErrUnauthorized is returned for bad credentials and missing or expired sessions
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidMedia is returned for uploads that are empty, too large or of a disallowed type
	ErrInvalidMedia = errors.New("invalid media")
)
