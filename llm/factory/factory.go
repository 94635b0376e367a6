// Copyright (c) LLMBridge Authors.
// Licensed under the MIT License.

// 包 factory 从配置快照构建 Bridge：一个共享的加固 HTTP 客户端，
// 每个已配置密钥的提供商一个注册项。封闭分发表只在这里组装。
package factory

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mealforge/llmbridge/config"
	"github.com/mealforge/llmbridge/internal/tlsutil"
	"github.com/mealforge/llmbridge/llm"
	"github.com/mealforge/llmbridge/llm/providers"
	"github.com/mealforge/llmbridge/llm/providers/deepseek"
	"github.com/mealforge/llmbridge/llm/providers/gemini"
	"github.com/mealforge/llmbridge/llm/providers/openai"
)

// NewBridge 按配置组装全部受支持提供商。
// 密钥未配置的提供商照常注册：缺失在调用时作为配置错误浮出，
// 与网络失败严格区分（启动期只要求普遍依赖的 Gemini 密钥，见 config.Validate）。
func NewBridge(cfg *config.Config, logger *zap.Logger) *llm.Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := tlsutil.SecureHTTPClient(cfg.LLM.RequestTimeout)

	registry := map[llm.ProviderName]llm.Provider{
		llm.ProviderGemini:   newGemini(cfg, client, logger),
		llm.ProviderOpenAI:   newOpenAI(cfg, client, logger),
		llm.ProviderDeepSeek: newDeepSeek(cfg, client, logger),
	}
	return llm.NewBridge(registry, logger)
}

func newGemini(cfg *config.Config, client *http.Client, logger *zap.Logger) llm.Provider {
	return gemini.New(providers.GeminiConfig{
		BaseProviderConfig: providers.BaseProviderConfig{
			APIKey:  cfg.LLM.Gemini.APIKey,
			BaseURL: cfg.LLM.Gemini.BaseURL,
			Model:   cfg.LLM.Gemini.Model,
			Timeout: cfg.LLM.RequestTimeout,
		},
	}, client, logger)
}

func newOpenAI(cfg *config.Config, client *http.Client, logger *zap.Logger) llm.Provider {
	return openai.New(providers.OpenAIConfig{
		BaseProviderConfig: providers.BaseProviderConfig{
			APIKey:  cfg.LLM.OpenAI.APIKey,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
			Model:   cfg.LLM.OpenAI.Model,
			Timeout: cfg.LLM.RequestTimeout,
		},
	}, client, logger)
}

func newDeepSeek(cfg *config.Config, client *http.Client, logger *zap.Logger) llm.Provider {
	return deepseek.New(providers.DeepSeekConfig{
		BaseProviderConfig: providers.BaseProviderConfig{
			APIKey:  cfg.LLM.DeepSeek.APIKey,
			BaseURL: cfg.LLM.DeepSeek.BaseURL,
			Model:   cfg.LLM.DeepSeek.Model,
			Timeout: cfg.LLM.RequestTimeout,
		},
	}, client, logger)
}
