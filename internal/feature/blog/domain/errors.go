// Package domain defines domain-level errors for the blog feature.
package domain

import "blog_backend/internal/shared/apperr"

var (
	// ErrBlogNotFound is returned for missing and soft-deleted posts alike.
	ErrBlogNotFound = apperr.NotFound("Blog not found")
)
