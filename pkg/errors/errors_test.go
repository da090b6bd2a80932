package errors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrorTypeServerError, 503, "server error")
	assert.Equal(t, "server_error error (code 503): server error", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrorTypeNetwork, 0, io.ErrUnexpectedEOF, "failed to read response body")

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "unexpected EOF")
	assert.True(t, IsFetchError(err))
	assert.Equal(t, ErrorTypeNetwork, TypeOf(err))
}

func TestNotAccessibleFamily(t *testing.T) {
	for _, err := range []error{ErrProfileNotFound, ErrProfilePrivate, ErrNoVisiblePosts} {
		assert.ErrorIs(t, err, ErrNotAccessible)
		assert.False(t, IsFetchError(err))
	}
	assert.False(t, errors.Is(ErrEmptyUsername, ErrNotAccessible))
	assert.False(t, errors.Is(ErrInvalidSnapshot, ErrNotAccessible))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorTypeAuth, TypeOf(New(ErrorTypeAuth, 401, "login required")))
}

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  bool
	}{
		{ErrorTypeAuth, true},
		{ErrorTypeRateLimit, true},
		{ErrorTypeParsing, true},
		{ErrorTypeNetwork, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeServerError, false},
		{ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBlocked(tt.errorType))
		})
	}
}
