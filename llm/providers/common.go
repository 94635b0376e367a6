package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mealforge/llmbridge/llm"
)

// MapHTTPError 将提供商返回的非 2xx 状态映射为归一化错误。
// 任何非成功状态都是 ProviderRejected：调用方看到的是提供商的
// 人类可读消息，而不是原始状态码或 JSON 信封。
func MapHTTPError(status int, msg, provider string) *llm.Error {
	return &llm.Error{
		Kind:       llm.KindProviderRejected,
		Message:    msg,
		HTTPStatus: status,
		Retryable:  status == http.StatusTooManyRequests || status >= 500,
		Provider:   provider,
	}
}

// NetworkError 将传输层失败（连接、超时、DNS）收敛为 Network 类错误。
func NetworkError(err error, provider string) *llm.Error {
	return &llm.Error{
		Kind:      llm.KindNetwork,
		Message:   err.Error(),
		Retryable: true,
		Provider:  provider,
	}
}

// DecodeError 成功状态下响应体无法解码——内容不可用，归入 EmptyResponse。
func DecodeError(err error, provider string) *llm.Error {
	return &llm.Error{
		Kind:     llm.KindEmptyResponse,
		Message:  fmt.Sprintf("undecodable provider response: %v", err),
		Provider: provider,
	}
}

// ReadErrorMessage 读取 OpenAI 风格错误信封中的人类可读消息。
// 信封解析不出消息时回退到 HTTP 状态行文本，
// 调用方永远不会看到裸的提供商 JSON 或空消息。
func ReadErrorMessage(status int, body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return StatusFallback(status)
	}

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return StatusFallback(status)
}

// StatusFallback 返回状态码对应的状态行文本，未知状态码给出兜底描述。
func StatusFallback(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// ChooseModel 模型选择优先级：请求指定 → 配置指定 → 内置默认。
func ChooseModel(req *llm.GenerateRequest, configModel, fallbackModel string) string {
	if req != nil && req.Model != "" {
		return req.Model
	}
	if configModel != "" {
		return configModel
	}
	return fallbackModel
}

// BearerTokenHeaders 标准 Bearer token 认证 header。
// OpenAI 与 DeepSeek 共用；Gemini 走 URL 查询参数，不经过这里。
func BearerTokenHeaders(r *http.Request, apiKey string) {
	r.Header.Set("Authorization", "Bearer "+apiKey)
	r.Header.Set("Content-Type", "application/json")
}

// SafeCloseBody 安全关闭响应体并忽略错误。
func SafeCloseBody(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}

// RequireAPIKey 校验密钥存在。缺失是该次调用的配置错误，
// 必须在任何网络调用之前返回，与传输失败严格区分。
func RequireAPIKey(apiKey, provider string) error {
	if apiKey == "" {
		return llm.ConfigurationError(provider, "%s API key is not configured", provider)
	}
	return nil
}
