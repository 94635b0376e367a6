// =============================================================================
// LLMBridge 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.Load("config.yaml")
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config LLMBridge 的完整配置结构。
// 启动时加载一次，随后作为不可变快照显式传入各组件。
type Config struct {
	LLM LLMConfig `yaml:"llm"`
	Log LogConfig `yaml:"log"`
}

// LLMConfig 各提供商的接入配置。
type LLMConfig struct {
	Gemini   ProviderConfig `yaml:"gemini"`
	OpenAI   ProviderConfig `yaml:"openai"`
	DeepSeek ProviderConfig `yaml:"deepseek"`

	// RequestTimeout 单次出站调用的整体超时。
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ProviderConfig 单个提供商的接入参数。
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level string `yaml:"level"` // debug/info/warn/error
}

// Default 返回内置默认配置。
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			RequestTimeout: 60 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load 加载配置：默认值 → YAML 文件（path 为空则跳过）→ 环境变量。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 环境变量覆盖。密钥通常只经由环境注入，不落盘。
func applyEnv(cfg *Config) {
	overrideString(&cfg.LLM.Gemini.APIKey, "LLMBRIDGE_GEMINI_API_KEY")
	overrideString(&cfg.LLM.Gemini.BaseURL, "LLMBRIDGE_GEMINI_BASE_URL")
	overrideString(&cfg.LLM.Gemini.Model, "LLMBRIDGE_GEMINI_MODEL")

	overrideString(&cfg.LLM.OpenAI.APIKey, "LLMBRIDGE_OPENAI_API_KEY")
	overrideString(&cfg.LLM.OpenAI.BaseURL, "LLMBRIDGE_OPENAI_BASE_URL")
	overrideString(&cfg.LLM.OpenAI.Model, "LLMBRIDGE_OPENAI_MODEL")

	overrideString(&cfg.LLM.DeepSeek.APIKey, "LLMBRIDGE_DEEPSEEK_API_KEY")
	overrideString(&cfg.LLM.DeepSeek.BaseURL, "LLMBRIDGE_DEEPSEEK_BASE_URL")
	overrideString(&cfg.LLM.DeepSeek.Model, "LLMBRIDGE_DEEPSEEK_MODEL")

	overrideString(&cfg.Log.Level, "LLMBRIDGE_LOG_LEVEL")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate 启动期校验。Gemini 密钥是宿主进程普遍依赖的密钥，
// 缺失即启动失败；其余提供商允许延迟到调用时报配置错误。
func (c *Config) Validate() error {
	if c.LLM.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api key is required (LLMBRIDGE_GEMINI_API_KEY)")
	}
	if c.LLM.RequestTimeout <= 0 {
		c.LLM.RequestTimeout = 60 * time.Second
	}
	return nil
}
