// =============================================================================
// LLMBridge 主入口
// =============================================================================
// 命令行入口，包含生成调用、提供商探活与版本查询
//
// 使用方法:
//
//	llmbridge generate -config config.yaml -request req.json
//	llmbridge generate -request -            # 从 stdin 读取请求 JSON
//	llmbridge health -provider gemini        # 提供商探活
//	llmbridge version                        # 显示版本信息
// =============================================================================
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mealforge/llmbridge/config"
	"github.com/mealforge/llmbridge/llm"
	"github.com/mealforge/llmbridge/llm/factory"
)

// 构建期通过 ldflags 注入
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "generate":
		os.Exit(runGenerate(os.Args[2:]))
	case "health":
		os.Exit(runHealth(os.Args[2:]))
	case "version":
		fmt.Printf("llmbridge %s (%s)\n", Version, GitCommit)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: llmbridge <generate|health|version> [flags]")
}

func setup(configPath string) (*llm.Bridge, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return factory.NewBridge(cfg, logger), logger, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML 配置文件路径")
	requestPath := fs.String("request", "-", "请求 JSON 文件路径，- 表示 stdin")
	_ = fs.Parse(args)

	bridge, logger, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	var reader io.Reader = os.Stdin
	if *requestPath != "-" {
		f, err := os.Open(*requestPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open request:", err)
			return 1
		}
		defer f.Close()
		reader = f
	}

	var req llm.GenerateRequest
	if err := json.NewDecoder(reader).Decode(&req); err != nil {
		fmt.Fprintln(os.Stderr, "decode request:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := bridge.Generate(ctx, &req)
	if err != nil {
		// 调用方契约：失败也是结构化的 {kind, message}
		norm := llm.NormalizeError(err, string(req.Provider))
		out, _ := json.MarshalIndent(norm, "", "  ")
		fmt.Println(string(out))
		return 1
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	return 0
}

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML 配置文件路径")
	provider := fs.String("provider", "gemini", "目标提供商")
	_ = fs.Parse(args)

	bridge, logger, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status, err := bridge.HealthCheck(ctx, llm.ProviderName(*provider))
	if err != nil {
		fmt.Fprintln(os.Stderr, "unhealthy:", err)
		return 1
	}
	fmt.Printf("healthy=%t latency=%s\n", status.Healthy, status.Latency)
	return 0
}
