package deepseek

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mealforge/llmbridge/llm/providers"
	"github.com/mealforge/llmbridge/llm/providers/openaicompat"
)

// Provider 实现 DeepSeek 提供者。
// DeepSeek 与 OpenAI 的 chat-completions 线格式完全兼容，
// 仅端点与默认模型不同；无文件上传端点。
type Provider struct {
	*openaicompat.Provider
}

// New 创建 DeepSeek 提供者实例。
func New(cfg providers.DeepSeekConfig, client *http.Client, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepseek.com"
	}
	return &Provider{
		Provider: openaicompat.New(openaicompat.Config{
			ProviderName:   "deepseek",
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			DefaultModel:   cfg.Model,
			FallbackModel:  "deepseek-chat",
			Timeout:        cfg.Timeout,
			EndpointPath:   "/chat/completions",
			ModelsEndpoint: "/models",
		}, client, logger),
	}
}
