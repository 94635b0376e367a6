package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlattenContent 把松散类型的提供商消息内容压平为单个字符串。
// 提供商 SDK 对 content 的合法形状包括：纯字符串；块数组（元素本身是
// 字符串、带 .text、带 .content 字符串、或带需要递归的 .content 数组）；
// 以及裸对象（.text / .content）。无法识别的形状退化为 JSON 序列化文本，
// 绝不抛错——调用方总能拿到某个字符串。
func FlattenContent(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		var sb strings.Builder
		for _, item := range t {
			sb.WriteString(FlattenContent(item))
		}
		return sb.String()
	case map[string]any:
		if s, ok := t["text"].(string); ok {
			return s
		}
		if c, ok := t["content"]; ok {
			return FlattenContent(c)
		}
	}
	return stringifyContent(v)
}

// FlattenRawContent 先解码 JSON 再压平，供提供商在响应边界使用。
// 解码失败时按原始文本返回。
func FlattenRawContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return FlattenContent(v)
}

func stringifyContent(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
