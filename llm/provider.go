package llm

import "context"

// Provider 定义统一的提供商能力接口。
// 新增提供商意味着新增一个实现与一个注册项，共享分发逻辑不动。
type Provider interface {
	// Generate 发起单次生成请求。失败时返回的 error 必须已经是
	// *Error（归一化完成），原始传输错误不跨出实现边界。
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// HealthCheck 轻量探活，返回延迟与可用性。
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// ListModels 返回提供商可用模型的统一描述。
	ListModels(ctx context.Context) ([]Model, error)

	// Name 返回提供商唯一标识。
	Name() string
}

// FileTransferProvider 可选能力：独立的文件上传端点。
// 目前仅 OpenAI 实现；上传仅对图片 MIME 类型可达，
// PDF 刻意走内联路径（上传端点拒绝非图片的 vision 用途）。
type FileTransferProvider interface {
	Provider

	// UploadFile 上传文件并返回不透明的文件 id。
	UploadFile(ctx context.Context, data []byte, fileName, mimeType string) (string, error)

	// DeleteFile 删除已上传文件。清理是尽力而为：
	// 调用方（Bridge）记录失败但绝不让其影响主请求结果。
	DeleteFile(ctx context.Context, fileID string) error
}
