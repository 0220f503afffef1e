package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeInvalidRating, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeBookNotFound, http.StatusNotFound},
		{ErrCodeEmailDuplicate, http.StatusConflict},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeRedisError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.code, "x").HTTPStatus())
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(sql.ErrNoRows, "query failed")

	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Contains(t, err.Error(), "query failed")
}

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrForbidden)
	assert.Same(t, ErrForbidden, GetAppError(wrapped))

	plain := GetAppError(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.True(t, HasCode(wrapped, ErrCodeForbidden))
	assert.False(t, HasCode(plain, ErrCodeForbidden))
}
