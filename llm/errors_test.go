package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, NormalizeError(nil, "gemini"))
	})

	t.Run("normalized error untouched", func(t *testing.T) {
		in := &Error{Kind: KindProviderRejected, Message: "invalid key", HTTPStatus: 401}
		out := NormalizeError(in, "openai")
		assert.Equal(t, KindProviderRejected, out.Kind)
		assert.Equal(t, "invalid key", out.Message)
		assert.Equal(t, "openai", out.Provider, "provider annotated when missing")
	})

	t.Run("wrapped normalized error found", func(t *testing.T) {
		in := fmt.Errorf("call failed: %w", &Error{Kind: KindNetwork, Message: "refused"})
		out := NormalizeError(in, "deepseek")
		assert.Equal(t, KindNetwork, out.Kind)
	})

	t.Run("context cancellation is a network failure", func(t *testing.T) {
		out := NormalizeError(context.DeadlineExceeded, "gemini")
		assert.Equal(t, KindNetwork, out.Kind)
		assert.True(t, out.Retryable)
	})

	t.Run("anything else is internal", func(t *testing.T) {
		out := NormalizeError(errors.New("boom"), "gemini")
		assert.Equal(t, KindInternal, out.Kind)
		assert.Equal(t, "boom", out.Message)
	})
}

func TestAsError(t *testing.T) {
	e, ok := AsError(&Error{Kind: KindConfiguration})
	require.True(t, ok)
	assert.Equal(t, KindConfiguration, e.Kind)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestConfigurationError(t *testing.T) {
	e := ConfigurationError("gemini", "missing %s", "key")
	assert.Equal(t, KindConfiguration, e.Kind)
	assert.Equal(t, "missing key", e.Message)
	assert.Equal(t, "gemini", e.Provider)
}
