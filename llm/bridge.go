package llm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/llmbridge/llm/docconv"
)

// Bridge 是归一化层的编排入口：附件分类与预处理、提供商分发、
// 调用指标与错误归一化。无共享可变状态，单实例可被任意并发使用。
type Bridge struct {
	providers map[ProviderName]Provider
	logger    *zap.Logger
}

// NewBridge 创建 Bridge。providers 是进程启动时构建的不可变快照，
// 归一化与抽取逻辑不读取任何环境全局量。
func NewBridge(providers map[ProviderName]Provider, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{providers: providers, logger: logger}
}

// Generate 执行单次归一化生成。结果恒为 *GenerateResult 或 *Error，
// 单次尝试、不重试；是否重试由调用方决定。
func (b *Bridge) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, NormalizeError(err, string(req.GetProvider()))
	}

	provider, ok := b.providers[req.Provider]
	if !ok {
		return nil, ConfigurationError(string(req.Provider), "provider %q is not configured", req.Provider)
	}

	req = req.Clone()
	if req.TraceID == "" {
		req.TraceID = uuid.NewString()
	}
	log := b.logger.With(
		zap.String("trace_id", req.TraceID),
		zap.String("provider", provider.Name()),
	)

	cleanup, err := b.prepareAttachments(ctx, provider, req, log)
	if err != nil {
		return nil, NormalizeError(err, provider.Name())
	}
	defer cleanup()

	start := time.Now()
	result, err := provider.Generate(ctx, req)
	latency := time.Since(start)
	observeProviderCall(provider.Name(), err, latency)

	if err != nil {
		norm := NormalizeError(err, provider.Name())
		log.Warn("provider call failed",
			zap.String("kind", string(norm.Kind)),
			zap.Int("http_status", norm.HTTPStatus),
			zap.Duration("latency", latency),
		)
		return nil, norm
	}

	log.Debug("provider call succeeded",
		zap.Duration("latency", latency),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return result, nil
}

// prepareAttachments 对每个附件恰好分类一次并施行对应策略：
// 文本抽取类在此折叠为消息文本，上传引用类在此完成预上传，
// 内联类原样交给提供商归一化。返回的 cleanup 负责尽力而为的
// 上传清理，永不让清理失败影响主请求。
func (b *Bridge) prepareAttachments(ctx context.Context, provider Provider, req *GenerateRequest, log *zap.Logger) (func(), error) {
	cleanup := func() {}
	if len(req.Attachments) == 0 {
		return cleanup, nil
	}

	var uploaded []string
	ft, canUpload := provider.(FileTransferProvider)
	kept := req.Attachments[:0]

	for _, att := range req.Attachments {
		strategy := ClassifyAttachment(att.MIMEType, att.FileName, att.PreUpload)
		switch strategy {
		case StrategyExtractedText:
			extractor, err := docconv.ForAttachment(att.MIMEType, att.FileName)
			if err != nil {
				// 中途失败也不能留下已上传的孤儿文件
				b.cleanupUploads(ft, uploaded, log)
				return cleanup, ConfigurationError(provider.Name(),
					"attachment %q cannot be converted to text: %v", att.FileName, err)
			}
			text, err := extractor.ExtractText(att.Bytes)
			if err != nil {
				b.cleanupUploads(ft, uploaded, log)
				return cleanup, ConfigurationError(provider.Name(),
					"attachment %q text extraction failed: %v", att.FileName, err)
			}
			// 抽取出的文本作为追加的 user 轮次进入消息序列；
			// 该附件在 LLM 调用边界上不再存在。
			req.Messages = append(req.Messages, Message{Role: RoleUser, Content: text})

		case StrategyFilesAPIReference:
			if !canUpload {
				// 目标提供商没有上传端点，回落到默认的内联传输。
				kept = append(kept, att)
				continue
			}
			fileID, err := ft.UploadFile(ctx, att.Bytes, att.FileName, att.MIMEType)
			if err != nil {
				b.cleanupUploads(ft, uploaded, log)
				return cleanup, err
			}
			att.FileID = fileID
			uploaded = append(uploaded, fileID)
			kept = append(kept, att)

		default:
			kept = append(kept, att)
		}
	}
	req.Attachments = kept

	if len(uploaded) > 0 {
		cleanup = func() { b.cleanupUploads(ft, uploaded, log) }
	}
	return cleanup, nil
}

// cleanupUploads 尽力删除预上传产物。失败只记日志与指标，不向上传播。
func (b *Bridge) cleanupUploads(ft FileTransferProvider, fileIDs []string, log *zap.Logger) {
	for _, id := range fileIDs {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(context.Background()), 15*time.Second)
		err := ft.DeleteFile(ctx, id)
		cancel()
		if err != nil {
			observeFileCleanupFailure(ft.Name())
			log.Warn("file cleanup failed", zap.String("file_id", id), zap.Error(err))
		}
	}
}

// GetProvider nil 安全地读取提供商字段，仅用于错误路径上的日志标注。
func (r *GenerateRequest) GetProvider() ProviderName {
	if r == nil {
		return ""
	}
	return r.Provider
}

// Providers 返回已注册提供商的名称集合，供宿主进程做启动自检。
func (b *Bridge) Providers() []string {
	out := make([]string, 0, len(b.providers))
	for name := range b.providers {
		out = append(out, string(name))
	}
	return out
}

// HealthCheck 对指定提供商执行探活。
func (b *Bridge) HealthCheck(ctx context.Context, name ProviderName) (*HealthStatus, error) {
	provider, ok := b.providers[name]
	if !ok {
		return nil, ConfigurationError(string(name), "provider %q is not configured", name)
	}
	status, err := provider.HealthCheck(ctx)
	if err != nil {
		return status, NormalizeError(err, provider.Name())
	}
	return status, nil
}
