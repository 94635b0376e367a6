package llm

import "strings"

// AttachmentStrategy 附件到达提供商的传输方式，每个附件恰好分类一次。
type AttachmentStrategy string

const (
	// StrategyInlineBase64 图片或 PDF 以 data URL 形式内嵌在聊天负载中。
	StrategyInlineBase64 AttachmentStrategy = "inline_base64"
	// StrategyFilesAPIReference 先经独立上传端点上传，按不透明 id 引用。
	// 仅图片 MIME 类型可达；PDF 刻意路由到内联（上传端点拒绝
	// 非图片的该用途）。提供商集合变化时需逐一复核。
	StrategyFilesAPIReference AttachmentStrategy = "files_api_reference"
	// StrategyExtractedText 非图片/非 PDF 文档在触达提供商之前
	// 转换为纯文本，在 LLM 调用边界上不再以附件形态存在。
	StrategyExtractedText AttachmentStrategy = "extracted_text"
)

// ClassifyAttachment 纯分类，无副作用。规则按优先级：
//  1. PDF（MIME 或 .pdf 后缀）→ 内联，永不走文件上传端点；
//  2. image/* → 默认内联，preUpload 显式选择时走上传引用；
//  3. Word 文档 → 文本抽取（.doc 与 .docx 的区分在抽取层显式失败）；
//  4. 其余 → 尽力文本抽取，抽不出来由抽取层报配置错误，
//     不把不透明字节直接转发给 LLM。
func ClassifyAttachment(mimeType, fileName string, preUpload bool) AttachmentStrategy {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	name := strings.ToLower(fileName)

	if mime == "application/pdf" || strings.HasSuffix(name, ".pdf") {
		return StrategyInlineBase64
	}
	if strings.HasPrefix(mime, "image/") {
		if preUpload {
			return StrategyFilesAPIReference
		}
		return StrategyInlineBase64
	}
	return StrategyExtractedText
}

// IsWordDocument 报告附件是否为 Word 文档（旧版二进制或 OOXML）。
func IsWordDocument(mimeType, fileName string) bool {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	name := strings.ToLower(fileName)
	switch mime {
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return true
	}
	return strings.HasSuffix(name, ".doc") || strings.HasSuffix(name, ".docx")
}
