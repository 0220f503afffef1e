package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
	"github.com/SuwethaV/bookreview/pkg/response"
)

// bindFailed maps a ShouldBind error onto the envelope.
// Unreadable bodies are 40901, rule violations 40900.
func bindFailed(c *gin.Context, err error) {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		validErr  validator.ValidationErrors
	)
	switch {
	case errors.As(err, &validErr):
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "invalid parameters: "+validErr.Error())
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		response.Error(c, apperrors.ErrBindError)
	default:
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "invalid parameters: "+err.Error())
	}
}
