// Copyright (c) LLMBridge Authors.
// Licensed under the MIT License.

/*
# 概述

包 gemini 提供 Google Gemini 的 Provider 适配实现。直接对接
Gemini REST API（generativelanguage.googleapis.com），自行构建
contents/parts 原生请求、解析候选响应；API key 以 URL 查询参数传递。

# 归一化形状

单个 contents 轮次，parts 按固定顺序拼装：全部附件的 inlineData 在前，
消息文本在后（确定性输出的刻意简化）；systemInstruction 独立于 parts
顶层携带；generationConfig 在无任何可选参数时整体省略——空对象与
缺字段在 Gemini 侧语义不同。

# 支持能力

  - generateContent（文本 + 内联多模态）
  - 结构化输出（responseSchema / responseMimeType 透传）
  - ListModels / HealthCheck

# 不支持能力

  - 独立文件上传端点（附件一律内联）、流式输出
*/
package gemini
