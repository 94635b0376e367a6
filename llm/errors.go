package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind 封闭的错误类别。调用方拿到的每个失败必属其一，
// 不会出现未归类的原始异常。
type ErrorKind string

const (
	// KindConfiguration 密钥缺失/无效或提供商取值不受支持。
	KindConfiguration ErrorKind = "CONFIGURATION"
	// KindNetwork 到达提供商的传输层失败。
	KindNetwork ErrorKind = "NETWORK"
	// KindProviderRejected 提供商返回非 2xx，携带其解析后的消息。
	KindProviderRejected ErrorKind = "PROVIDER_REJECTED"
	// KindEmptyResponse 调用成功但内容缺失或不可用。
	KindEmptyResponse ErrorKind = "EMPTY_RESPONSE"
	// KindInternal 其余一切意外。
	KindInternal ErrorKind = "INTERNAL"
)

// Error 归一化错误。HTTPStatus/Retryable/Provider 是诊断附注，
// 调用方面向 Kind 与 Message 编程。
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable,omitempty"`
	Provider   string    `json:"provider,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// ConfigurationError 构造配置类错误。
func ConfigurationError(provider, format string, args ...any) *Error {
	return &Error{
		Kind:     KindConfiguration,
		Message:  fmt.Sprintf(format, args...),
		Provider: provider,
	}
}

// EmptyResponseError 构造空响应类错误。
func EmptyResponseError(provider, msg string) *Error {
	return &Error{Kind: KindEmptyResponse, Message: msg, Provider: provider}
}

// AsError 提取 err 链上的 *Error。
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// NormalizeError 将任意失败收敛为 *Error。已归一化的错误原样透传；
// 上下文取消/超时按传输失败处理；其余归入 Internal。
// 原始堆栈与提供商异常不会跨出本层。
func NormalizeError(err error, provider string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		if e.Provider == "" {
			e.Provider = provider
		}
		return e
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Kind:      KindNetwork,
			Message:   err.Error(),
			Retryable: true,
			Provider:  provider,
		}
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Provider: provider}
}
