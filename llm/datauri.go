package llm

import "strings"

// data URL 的严格形态：data:<mime>;base64,<payload>。
// 归一化层只认这一种形状，别的变体（带 charset、非 base64 编码）不拆解。

const dataURLMarker = ";base64,"

// EncodeDataURL 将 base64 负载包装为 data URL。
func EncodeDataURL(mimeType, base64Payload string) string {
	return "data:" + mimeType + dataURLMarker + base64Payload
}

// DecodeDataURL 拆解严格形态的 data URL，返回 MIME 类型与原始 base64 负载。
// 负载不做解码再编码，保证逐字节往返一致。
func DecodeDataURL(s string) (mimeType, base64Payload string, ok bool) {
	rest, found := strings.CutPrefix(s, "data:")
	if !found {
		return "", "", false
	}
	mimeType, base64Payload, found = strings.Cut(rest, dataURLMarker)
	if !found || mimeType == "" || base64Payload == "" {
		return "", "", false
	}
	if !strings.Contains(mimeType, "/") || strings.ContainsAny(mimeType, " ,;") {
		return "", "", false
	}
	return mimeType, base64Payload, true
}
