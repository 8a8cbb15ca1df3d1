package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("direct code", func(t *testing.T) {
		err := New(CodeValidation, "country is required")
		assert.True(t, HasCode(err, CodeValidation))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("code below a fmt wrap", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeUnprocessable, "unable to process input"))
		assert.True(t, HasCode(err, CodeUnprocessable))
	})

	t.Run("nested domain errors", func(t *testing.T) {
		inner := New(CodeNotFound, "missing")
		outer := Wrap(inner, CodeInternal, "load failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeNotFound))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CodeInternal, "write failed")

	assert.True(t, Is(err, cause))
	assert.Equal(t, "write failed: disk full", err.Error())

	de, ok := As(fmt.Errorf("outer: %w", err))
	assert.True(t, ok)
	assert.Equal(t, CodeInternal, de.Code)
}
