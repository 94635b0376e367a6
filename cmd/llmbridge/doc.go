// Copyright (c) LLMBridge Authors.
// Licensed under the MIT License.

/*
Package main 提供 LLMBridge 命令行入口。

# 概述

cmd/llmbridge 把归一化层暴露为可执行程序：从文件或标准输入读取
规范请求 JSON，经 Bridge 分发到对应提供商，把归一化结果（或归一化
错误）以 JSON 打印到标准输出。配置走 YAML 文件 + 环境变量覆盖，
日志为 zap 结构化输出。

# 子命令

  - generate — 执行单次生成：llmbridge generate -config config.yaml -request req.json
    （-request 为 "-" 时从 stdin 读取）
  - health   — 指定提供商探活：llmbridge health -provider gemini
  - version  — 打印构建版本（Version、GitCommit 通过 ldflags 注入）
*/
package main
