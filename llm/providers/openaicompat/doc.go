// Copyright (c) LLMBridge Authors.
// Licensed under the MIT License.

/*
# 概述

包 openaicompat 是所有 OpenAI 兼容提供商的共享实现。OpenAI 与
DeepSeek 在 chat-completions 线格式上完全同构，各自的包只覆盖差异项
（名称、BaseURL、默认模型、是否具备文件上传端点）。

# 归一化形状

扁平 messages 数组，可选的前导 system 消息；字符串内容逐字透传，
结构化内容转换为 content-part 数组；附件仅追加到最后一条 user 消息
（最后一条非 user 时静默丢弃，保留源行为）；temperature/max_tokens
仅在调用方未提供时采用固定默认值 0.7/4096；请求结构化输出时置
response_format=json_object（任意 JSON Schema 在该协议下只有布尔开关
语义，schema 内容被接受但不再产生效果）。

# 文件上传

Cfg.SupportsFileUpload 开启时实现 UploadFile/DeleteFile
（multipart POST /v1/files，purpose=vision）。
*/
package openaicompat
