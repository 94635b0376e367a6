package openai

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mealforge/llmbridge/llm/providers"
	"github.com/mealforge/llmbridge/llm/providers/openaicompat"
)

// Provider 实现 OpenAI 提供者。
// 线格式完全走 openaicompat 兼容层；OpenAI 是唯一具备
// 独立文件上传端点的提供商（Files API，purpose=vision）。
type Provider struct {
	*openaicompat.Provider
}

// New 创建 OpenAI 提供者实例。
func New(cfg providers.OpenAIConfig, client *http.Client, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	return &Provider{
		Provider: openaicompat.New(openaicompat.Config{
			ProviderName:       "openai",
			APIKey:             cfg.APIKey,
			BaseURL:            cfg.BaseURL,
			DefaultModel:       cfg.Model,
			FallbackModel:      "gpt-4o",
			Timeout:            cfg.Timeout,
			SupportsFileUpload: true,
		}, client, logger),
	}
}
