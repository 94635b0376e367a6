package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mealforge/llmbridge/internal/tlsutil"
	"github.com/mealforge/llmbridge/llm"
	"github.com/mealforge/llmbridge/llm/providers"
)

// 调用方未提供可选参数时的固定回退默认值。
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4096
)

// Config OpenAI 兼容提供商的配置。
type Config struct {
	// ProviderName 唯一标识（如 "openai"、"deepseek"）。
	ProviderName string

	// APIKey 认证密钥。缺失是调用级配置错误，不做静默跳过。
	APIKey string

	// BaseURL API 基地址（如 "https://api.openai.com"）。
	BaseURL string

	// DefaultModel 配置指定模型；FallbackModel 两者皆空时兜底。
	DefaultModel  string
	FallbackModel string

	// Timeout HTTP 客户端超时，零值时 30s。
	Timeout time.Duration

	// EndpointPath chat completions 路径，默认 "/v1/chat/completions"。
	EndpointPath string

	// ModelsEndpoint 模型列表路径，默认 "/v1/models"。
	ModelsEndpoint string

	// FilesEndpoint 文件端点路径，默认 "/v1/files"。
	FilesEndpoint string

	// SupportsFileUpload 是否具备独立文件上传端点（仅 OpenAI）。
	SupportsFileUpload bool
}

// Provider OpenAI 兼容提供商的基础实现。各提供商包嵌入本类型，
// 只覆盖差异配置。
type Provider struct {
	Cfg    Config
	Client *http.Client
	Logger *zap.Logger
}

// New 创建 OpenAI 兼容 Provider。client 为 nil 时使用共享加固客户端。
func New(cfg Config, client *http.Client, logger *zap.Logger) *Provider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/v1/chat/completions"
	}
	if cfg.ModelsEndpoint == "" {
		cfg.ModelsEndpoint = "/v1/models"
	}
	if cfg.FilesEndpoint == "" {
		cfg.FilesEndpoint = "/v1/files"
	}
	if client == nil {
		client = tlsutil.SecureHTTPClient(timeout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{Cfg: cfg, Client: client, Logger: logger}
}

func (p *Provider) Name() string { return p.Cfg.ProviderName }

func (p *Provider) endpoint(path string) string {
	return fmt.Sprintf("%s%s", strings.TrimRight(p.Cfg.BaseURL, "/"), path)
}

// chat-completions 线格式
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string 或 []contentPart
}

type contentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *imageURLRef `json:"image_url,omitempty"`
	File     *fileRef     `json:"file,omitempty"`
}

type imageURLRef struct {
	URL string `json:"url"`
}

type fileRef struct {
	FileID string `json:"file_id"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	// 默认值总是被填充，显式零值也必须上线；两个字段从不省略
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Index        int    `json:"index"`
	FinishReason string `json:"finish_reason"`
	Message      struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"` // 松散类型，统一走 FlattenRawContent
	} `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

// blockToPart 将规范内容块转换为 content-part，data URL 原样重组。
func blockToPart(b llm.ContentBlock) contentPart {
	if b.Kind == llm.BlockImage {
		url := b.URL
		if b.Data != "" {
			url = llm.EncodeDataURL(b.MIMEType, b.Data)
		}
		return contentPart{Type: "image_url", ImageURL: &imageURLRef{URL: url}}
	}
	return contentPart{Type: "text", Text: b.Text}
}

// buildRequest 将规范请求转换为 chat-completions 负载。纯函数。
func (p *Provider) buildRequest(req *llm.GenerateRequest, model string) *chatRequest {
	messages := make([]chatMessage, 0, len(req.Messages)+1)
	if req.SystemInstruction != "" {
		messages = append(messages, chatMessage{Role: string(llm.RoleSystem), Content: req.SystemInstruction})
	}

	for _, m := range req.Messages {
		if len(m.Blocks) > 0 {
			parts := make([]contentPart, 0, len(m.Blocks))
			for _, b := range m.Blocks {
				parts = append(parts, blockToPart(b))
			}
			messages = append(messages, chatMessage{Role: string(m.Role), Content: parts})
			continue
		}
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	// 附件单独构成一轮时合成一条空 user 消息来承载它们
	if len(req.Attachments) > 0 && len(req.Messages) == 0 {
		messages = append(messages, chatMessage{Role: string(llm.RoleUser), Content: ""})
	}

	// 附件只追加到最后一条消息，且仅当其为 user 轮次；
	// 否则静默不附加（保留既有行为，不猜第三种语义）。
	if len(req.Attachments) > 0 && len(messages) > 0 {
		last := &messages[len(messages)-1]
		if last.Role == string(llm.RoleUser) {
			parts := contentToParts(last.Content)
			for _, att := range req.Attachments {
				parts = append(parts, attachmentToPart(att))
			}
			last.Content = parts
		} else {
			p.Logger.Debug("attachments dropped: last message is not user-authored",
				zap.String("provider", p.Name()),
				zap.Int("attachments", len(req.Attachments)),
			)
		}
	}

	temperature := float32(DefaultTemperature)
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := DefaultMaxTokens
	if req.MaxOutputTokens != nil {
		maxTokens = *req.MaxOutputTokens
	}

	body := &chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	// 该协议的结构化输出只有布尔开关：提供了 schema 或 JSON MIME
	// 类型即开启 json_object，schema 内容不再产生进一步效果。
	if len(req.ResponseSchema) > 0 || strings.Contains(req.ResponseMIMEType, "json") {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return body
}

// contentToParts 把已有内容转为 part 数组以便追加附件。
func contentToParts(content any) []contentPart {
	switch c := content.(type) {
	case string:
		if c == "" {
			return nil
		}
		return []contentPart{{Type: "text", Text: c}}
	case []contentPart:
		return c
	}
	return nil
}

// attachmentToPart 预上传过的附件按文件 id 引用，其余内联为 data URL。
func attachmentToPart(att llm.Attachment) contentPart {
	if att.FileID != "" {
		return contentPart{Type: "file", File: &fileRef{FileID: att.FileID}}
	}
	payload := llm.EncodeDataURL(att.MIMEType, encodeBase64(att.Bytes))
	return contentPart{Type: "image_url", ImageURL: &imageURLRef{URL: payload}}
}

// Generate 发起 chat completion 并抽取归一化文本。
func (p *Provider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResult, error) {
	if err := providers.RequireAPIKey(p.Cfg.APIKey, p.Name()); err != nil {
		return nil, err
	}

	model := providers.ChooseModel(req, p.Cfg.DefaultModel, p.Cfg.FallbackModel)
	payload, err := json.Marshal(p.buildRequest(req, model))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(p.Cfg.EndpointPath), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	providers.BearerTokenHeaders(httpReq, p.Cfg.APIKey)

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return nil, providers.NetworkError(err, p.Name())
	}
	defer providers.SafeCloseBody(resp.Body)

	if resp.StatusCode >= 400 {
		msg := providers.ReadErrorMessage(resp.StatusCode, resp.Body)
		return nil, providers.MapHTTPError(resp.StatusCode, msg, p.Name())
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, providers.DecodeError(err, p.Name())
	}

	result := &llm.GenerateResult{Provider: p.Name(), Model: model}
	if cr.Model != "" {
		result.Model = cr.Model
	}
	// choices 为空时按显式空内容处理：该协议下空结果照常上浮，不是异常
	if len(cr.Choices) > 0 {
		result.Text = llm.FlattenRawContent(cr.Choices[0].Message.Content)
	}
	if cr.Usage != nil {
		result.Usage = llm.Usage{
			PromptTokens:     cr.Usage.PromptTokens,
			CompletionTokens: cr.Usage.CompletionTokens,
			TotalTokens:      cr.Usage.TotalTokens,
		}
	}
	return result, nil
}

// HealthCheck 轻量探活：GET 模型列表端点。
func (p *Provider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint(p.Cfg.ModelsEndpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	providers.BearerTokenHeaders(httpReq, p.Cfg.APIKey)

	resp, err := p.Client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, providers.NetworkError(err, p.Name())
	}
	defer providers.SafeCloseBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		msg := providers.ReadErrorMessage(resp.StatusCode, resp.Body)
		return &llm.HealthStatus{Healthy: false, Latency: latency},
			providers.MapHTTPError(resp.StatusCode, msg, p.Name())
	}
	return &llm.HealthStatus{Healthy: true, Latency: latency}, nil
}

// ListModels 获取可用模型列表。
func (p *Provider) ListModels(ctx context.Context) ([]llm.Model, error) {
	if err := providers.RequireAPIKey(p.Cfg.APIKey, p.Name()); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint(p.Cfg.ModelsEndpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	providers.BearerTokenHeaders(httpReq, p.Cfg.APIKey)

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return nil, providers.NetworkError(err, p.Name())
	}
	defer providers.SafeCloseBody(resp.Body)

	if resp.StatusCode >= 400 {
		msg := providers.ReadErrorMessage(resp.StatusCode, resp.Body)
		return nil, providers.MapHTTPError(resp.StatusCode, msg, p.Name())
	}

	var modelsResp struct {
		Data []llm.Model `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, providers.DecodeError(err, p.Name())
	}
	return modelsResp.Data, nil
}
