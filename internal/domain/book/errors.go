package book

import (
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

var (
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "book not found")

	ErrTitleRequired  = apperrors.New(apperrors.ErrCodeInvalidParams, "title is required")
	ErrAuthorRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "author is required")
	ErrInvalidYear    = apperrors.New(apperrors.ErrCodeInvalidParams, "publication year is out of range")

	// ErrForbidden is returned when a non-owner edits or deletes a book.
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "only the user who added this book can change it")
)
