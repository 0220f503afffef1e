package review

import (
	"fmt"

	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

var (
	ErrInvalidRating  = apperrors.New(apperrors.ErrCodeInvalidRating, "rating must be an integer between 1 and 5")
	ErrEmptyComment   = apperrors.New(apperrors.ErrCodeEmptyComment, "comment is required")
	ErrCommentTooLong = apperrors.New(apperrors.ErrCodeInvalidParams, fmt.Sprintf("comment must be at most %d characters", MaxCommentLength))
)
