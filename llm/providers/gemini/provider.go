package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mealforge/llmbridge/internal/tlsutil"
	"github.com/mealforge/llmbridge/llm"
	"github.com/mealforge/llmbridge/llm/providers"
)

const defaultModel = "gemini-2.0-flash"

// Provider 实现 Google Gemini 的归一化适配。
type Provider struct {
	cfg    providers.GeminiConfig
	client *http.Client
	logger *zap.Logger
}

// New 创建 Gemini Provider。client 为 nil 时使用共享的加固 HTTP 客户端。
func New(cfg providers.GeminiConfig, client *http.Client, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		client = tlsutil.SecureHTTPClient(timeout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{cfg: cfg, client: client, logger: logger}
}

func (p *Provider) Name() string { return "gemini" }

// Gemini 原生请求结构
type geminiContent struct {
	Role  string       `json:"role,omitempty"` // user, model
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiGenerationConfig struct {
	Temperature      *float32        `json:"temperature,omitempty"`
	MaxOutputTokens  *int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
	Index        int           `json:"index"`
}

type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate    `json:"candidates"`
	UsageMetadata *geminiUsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string               `json:"modelVersion,omitempty"`
}

type geminiErrorResp struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// buildRequest 将规范请求转换为 Gemini 原生负载。纯函数，无网络副作用。
// parts 顺序：全部附件的 inlineData 在前，随后按消息顺序展开文本与
// 结构化内容。顺序是刻意固定的：图片先于所有累积文本，保证输出确定性。
func buildRequest(req *llm.GenerateRequest) *geminiRequest {
	var parts []geminiPart

	for _, att := range req.Attachments {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: att.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(att.Bytes),
			},
		})
	}

	var systemParts []geminiPart
	if req.SystemInstruction != "" {
		systemParts = append(systemParts, geminiPart{Text: req.SystemInstruction})
	}

	for _, m := range req.Messages {
		// system 消息提升到顶层 systemInstruction，永不折入 parts
		if m.Role == llm.RoleSystem {
			if m.Content != "" {
				systemParts = append(systemParts, geminiPart{Text: m.Content})
			}
			continue
		}
		if m.Content != "" {
			parts = append(parts, geminiPart{Text: m.Content})
		}
		for _, b := range m.Blocks {
			switch b.Kind {
			case llm.BlockText:
				if b.Text != "" {
					parts = append(parts, geminiPart{Text: b.Text})
				}
			case llm.BlockImage:
				// 仅接受严格 data URL 拆解出的图片；远程 URL 引用丢弃
				if b.Data != "" && b.MIMEType != "" {
					parts = append(parts, geminiPart{
						InlineData: &geminiInlineData{MimeType: b.MIMEType, Data: b.Data},
					})
				}
			}
		}
	}

	body := &geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	}
	if len(systemParts) > 0 {
		body.SystemInstruction = &geminiContent{Parts: systemParts}
	}

	// generationConfig 整体省略 vs 空对象，Gemini 侧语义不同
	if req.Temperature != nil || req.MaxOutputTokens != nil ||
		req.ResponseMIMEType != "" || len(req.ResponseSchema) > 0 {
		body.GenerationConfig = &geminiGenerationConfig{
			Temperature:      req.Temperature,
			MaxOutputTokens:  req.MaxOutputTokens,
			ResponseMimeType: req.ResponseMIMEType,
			ResponseSchema:   req.ResponseSchema,
		}
	}
	return body
}

// endpoint 拼接 API 路径并以查询参数携带密钥（Gemini 认证约定）。
func (p *Provider) endpoint(path string) string {
	return fmt.Sprintf("%s%s?key=%s",
		strings.TrimRight(p.cfg.BaseURL, "/"), path, url.QueryEscape(p.cfg.APIKey))
}

// Generate 发起 generateContent 调用并抽取归一化文本。
func (p *Provider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResult, error) {
	if err := providers.RequireAPIKey(p.cfg.APIKey, p.Name()); err != nil {
		return nil, err
	}

	model := providers.ChooseModel(req, p.cfg.Model, defaultModel)
	payload, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.endpoint(fmt.Sprintf("/v1beta/models/%s:generateContent", model)),
		bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, providers.NetworkError(err, p.Name())
	}
	defer providers.SafeCloseBody(resp.Body)

	if resp.StatusCode >= 400 {
		msg := readGeminiErrMsg(resp.StatusCode, resp.Body)
		return nil, providers.MapHTTPError(resp.StatusCode, msg, p.Name())
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, providers.DecodeError(err, p.Name())
	}

	// Gemini 的契约保证至少一个候选；槽位整体缺失是异常，
	// 候选存在但内容为空不是（空字符串照常上浮）。
	if len(gr.Candidates) == 0 {
		return nil, llm.EmptyResponseError(p.Name(), "gemini response has no candidates")
	}

	var sb strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	result := &llm.GenerateResult{
		Text:     sb.String(),
		Provider: p.Name(),
		Model:    model,
	}
	if gr.UsageMetadata != nil {
		result.Usage = llm.Usage{
			PromptTokens:     gr.UsageMetadata.PromptTokenCount,
			CompletionTokens: gr.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      gr.UsageMetadata.TotalTokenCount,
		}
	}
	return result, nil
}

// HealthCheck 轻量探活：GET 模型列表端点。
func (p *Provider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint("/v1beta/models"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, providers.NetworkError(err, p.Name())
	}
	defer providers.SafeCloseBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		msg := readGeminiErrMsg(resp.StatusCode, resp.Body)
		return &llm.HealthStatus{Healthy: false, Latency: latency},
			providers.MapHTTPError(resp.StatusCode, msg, p.Name())
	}
	return &llm.HealthStatus{Healthy: true, Latency: latency}, nil
}

// ListModels 获取可用模型并转换为统一格式。
func (p *Provider) ListModels(ctx context.Context) ([]llm.Model, error) {
	if err := providers.RequireAPIKey(p.cfg.APIKey, p.Name()); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint("/v1beta/models"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, providers.NetworkError(err, p.Name())
	}
	defer providers.SafeCloseBody(resp.Body)

	if resp.StatusCode >= 400 {
		msg := readGeminiErrMsg(resp.StatusCode, resp.Body)
		return nil, providers.MapHTTPError(resp.StatusCode, msg, p.Name())
	}

	var modelsResp struct {
		Models []struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, providers.DecodeError(err, p.Name())
	}

	models := make([]llm.Model, 0, len(modelsResp.Models))
	for _, m := range modelsResp.Models {
		models = append(models, llm.Model{
			ID:      strings.TrimPrefix(m.Name, "models/"),
			Object:  "model",
			OwnedBy: "google",
		})
	}
	return models, nil
}

// readGeminiErrMsg 解析 Gemini 错误信封（{error:{code,message,status}}），
// 解析不出消息时回退到 HTTP 状态行文本，不外露裸响应体。
func readGeminiErrMsg(status int, body io.Reader) string {
	data, _ := io.ReadAll(body)
	var errResp geminiErrorResp
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return providers.StatusFallback(status)
}
