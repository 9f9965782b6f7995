package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("WrapsErrorWithContext", func(t *testing.T) {
		err := Wrap(ErrNotFound, "container lookup")
		assert.True(t, Is(err, ErrNotFound))
		assert.Equal(t, "container lookup: not found", err.Error())
	})

	t.Run("NilErrorReturnsNil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "anything"))
	})
}

func TestWithCode(t *testing.T) {
	t.Run("CodeIsRetrievable", func(t *testing.T) {
		err := WithCode(Wrap(ErrNotFound, "container not found"), 601)
		code, ok := CodeOf(err)
		assert.True(t, ok)
		assert.Equal(t, 601, code)
	})

	t.Run("ErrorChainSurvivesCoding", func(t *testing.T) {
		err := WithCode(Wrap(ErrConflict, "already assigned"), 301)
		assert.True(t, Is(err, ErrConflict))
		assert.Equal(t, "already assigned: conflict", err.Error())
	})

	t.Run("CodeSurvivesFurtherWrapping", func(t *testing.T) {
		err := WithCode(ErrForbidden, 303)
		err = fmt.Errorf("assign user: %w", err)
		code, ok := CodeOf(err)
		assert.True(t, ok)
		assert.Equal(t, 303, code)
	})

	t.Run("NoCodeReturnsFalse", func(t *testing.T) {
		_, ok := CodeOf(ErrNotFound)
		assert.False(t, ok)
	})

	t.Run("NilErrorReturnsNil", func(t *testing.T) {
		assert.Nil(t, WithCode(nil, 601))
	})
}
