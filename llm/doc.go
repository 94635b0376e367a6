// Copyright (c) LLMBridge Authors.
// Licensed under the MIT License.

/*
包 llm 提供统一的大语言模型请求归一化层：一个规范请求进，一个统一的
文本结果（或统一错误）出，屏蔽 Gemini、OpenAI、DeepSeek 在请求格式、
多模态附件编码、生成参数命名与错误信封上的差异。

# 概述

调用方构造 [GenerateRequest]（系统指令、有序消息、可选附件、生成参数），
由 [Bridge.Generate] 完成：附件分类与预处理 → Provider 原生请求构建 →
HTTP 调用 → 响应文本抽取 → 错误归一化。调用方永远拿到
[GenerateResult] 或 [*Error]，不会看到原始 HTTP 状态码或提供商 JSON。

# 核心接口

  - [Provider]：提供商能力接口，Generate / HealthCheck / ListModels / Name
  - [FileTransferProvider]：可选能力，独立文件上传端点（UploadFile / DeleteFile）

# 核心类型

  - [GenerateRequest] / [GenerateResult]：规范请求与归一化结果
  - [Message] / [ContentBlock]：消息轮次与多模态内容块（text | image）
  - [Attachment]：单次请求作用域的附件，不缓存、不持久化
  - [Error] / [ErrorKind]：封闭错误类别
    （Configuration / Network / ProviderRejected / EmptyResponse / Internal）

# 不承担的职责

结果持久化、重试退避、流式输出、限流与密钥管理均由上层或宿主进程负责；
本层单次调用、单次失败即返回。
*/
package llm
