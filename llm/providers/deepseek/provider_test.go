package deepseek

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/llmbridge/llm"
	"github.com/mealforge/llmbridge/llm/providers"
)

// DeepSeek 的端点没有 /v1 前缀，模型兜底也与 OpenAI 不同。
func TestGenerateEndpointAndFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-ds", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer srv.Close()

	p := New(providers.DeepSeekConfig{
		BaseProviderConfig: providers.BaseProviderConfig{APIKey: "sk-ds", BaseURL: srv.URL},
	}, nil, nil)
	require.Equal(t, "deepseek", p.Name())

	res, err := p.Generate(context.Background(), &llm.GenerateRequest{
		Provider: llm.ProviderDeepSeek,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "q"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Text)
	assert.Equal(t, "deepseek-chat", res.Model)
}

func TestNoFileUploadEndpoint(t *testing.T) {
	p := New(providers.DeepSeekConfig{
		BaseProviderConfig: providers.BaseProviderConfig{APIKey: "sk-ds"},
	}, nil, nil)
	_, err := p.UploadFile(context.Background(), []byte{1}, "a.png", "image/png")
	e, ok := llm.AsError(err)
	require.True(t, ok)
	assert.Equal(t, llm.KindConfiguration, e.Kind)
}
