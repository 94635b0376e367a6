// Copyright (c) LLMBridge Authors.
// Licensed under the MIT License.

// 包 deepseek 提供 DeepSeek 的 Provider 适配。
// DeepSeek 与 OpenAI chat-completions 协议线兼容，实现完全复用
// openaicompat 兼容层。
package deepseek
