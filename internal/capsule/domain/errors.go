package domain

import "errors"

// Failure classes for capsule operations. Callers wrap these with %w and
// delivery maps them to HTTP status codes.
var (
	ErrValidation  = errors.New("invalid capsule input")
	ErrAuth        = errors.New("no authenticated session")
	ErrUpload      = errors.New("media upload failed")
	ErrPersistence = errors.New("capsule storage failed")
	ErrEnrichment  = errors.New("ai enrichment failed")
	ErrNotFound    = errors.New("capsule not found")
)
