// Copyright (c) LLMBridge Authors.
// Licensed under the MIT License.

// 包 openai 提供 OpenAI 的 Provider 适配，基于 openaicompat 兼容层，
// 额外开启 Files API 能力（图片预上传、按 id 引用、尽力清理）。
package openai
