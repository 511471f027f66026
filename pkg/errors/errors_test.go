package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfUnwrapsChain(t *testing.T) {
	base := NotFound("conversation not found")
	wrapped := fmt.Errorf("handling request: %w", base)

	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeNotFound))
	assert.False(t, Is(wrapped, CodeForbidden))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(stderrors.New("boom")))
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Unavailable("could not store message", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "could not store message")
	assert.Contains(t, err.Error(), "connection refused")
}
