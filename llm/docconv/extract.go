package docconv

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Extractor 把文件字节转换为纯文本。
type Extractor interface {
	ExtractText(data []byte) (string, error)
}

// ErrLegacyDocUnsupported 旧版二进制 .doc 无法抽取。
// 与 .docx 区分开来，让调用方拿到明确失败而不是乱码文本。
var ErrLegacyDocUnsupported = errors.New("legacy binary .doc format is not extractable, convert to .docx")

// ErrUnsupportedFormat 没有可用抽取器的类型。
var ErrUnsupportedFormat = errors.New("no text extractor for this content type")

const (
	mimePDF       = "application/pdf"
	mimeDOC       = "application/msword"
	mimeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeJSON      = "application/json"
	mimeTextClass = "text/"
)

// ForAttachment 按 MIME 类型与文件名分发抽取器。
// 分发失败返回错误，由上层映射为配置/校验类错误。
func ForAttachment(mimeType, fileName string) (Extractor, error) {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	name := strings.ToLower(fileName)

	switch {
	case mime == mimePDF || strings.HasSuffix(name, ".pdf"):
		return pdfExtractor{}, nil
	case mime == mimeDOCX || strings.HasSuffix(name, ".docx"):
		return docxExtractor{}, nil
	case mime == mimeDOC || strings.HasSuffix(name, ".doc"):
		return nil, ErrLegacyDocUnsupported
	case strings.HasPrefix(mime, mimeTextClass) || mime == mimeJSON:
		return plainTextExtractor{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
}

// plainTextExtractor 对已是文本的类型做透传，仅校验编码。
type plainTextExtractor struct{}

func (plainTextExtractor) ExtractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text attachment is not valid UTF-8")
	}
	return string(data), nil
}
