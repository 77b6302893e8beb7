package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Content errors
	ErrContentNotFound = errors.New("content not found")
	ErrMissingContent  = errors.New("content is missing required posts")

	// Publishing errors
	ErrEmptyPlatformSet       = errors.New("no platforms selected")
	ErrAllPlatformsIneligible = errors.New("all selected platforms are already published or scheduled")
	ErrAutomationUnavailable  = errors.New("automation webhook unreachable")

	// Article / source errors
	ErrArticleNotFound  = errors.New("article not found")
	ErrDuplicateArticle = errors.New("article already saved")
	ErrSourceNotFound   = errors.New("source not found")
	ErrPromptNotFound   = errors.New("prompt not found")
	ErrNoActivePrompt   = errors.New("no active prompt configured")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
