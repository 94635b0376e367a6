package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFlattenContent(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"plain string", "hello", "hello"},
		{"array of strings", []any{"a", "b"}, "ab"},
		{"array of text blocks", []any{map[string]any{"text": "x"}, map[string]any{"text": "y"}}, "xy"},
		{"block with content string", map[string]any{"content": "inner"}, "inner"},
		{"nested content array", map[string]any{"content": []any{map[string]any{"text": "deep"}}}, "deep"},
		{"mixed array", []any{"a", map[string]any{"text": "b"}, map[string]any{"content": "c"}}, "abc"},
		{"bare text object", map[string]any{"text": "only"}, "only"},
		{"empty array", []any{}, ""},
		{"unrecognized object stringified", map[string]any{"weird": true}, `{"weird":true}`},
		{"number stringified", 42.0, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlattenContent(tt.input))
		})
	}
}

func TestFlattenRawContent(t *testing.T) {
	assert.Equal(t, "hi", FlattenRawContent(json.RawMessage(`"hi"`)))
	assert.Equal(t, "", FlattenRawContent(nil))
	assert.Equal(t, "ab", FlattenRawContent(json.RawMessage(`[{"type":"text","text":"a"},{"type":"text","text":"b"}]`)))
	// 非法 JSON 退化为原始文本而不是报错
	assert.Equal(t, "{broken", FlattenRawContent(json.RawMessage(`{broken`)))
}

// FlattenContent 必须对任意 JSON 值全函数：不 panic，恒返回字符串，
// 且幂等（对已压平的字符串再压平不变）。
func TestFlattenContentTotality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := genJSONValue(t, 3)
		out := FlattenContent(v)
		assert.Equal(t, out, FlattenContent(out), "flatten must be idempotent on its own output")
	})
}

func genJSONValue(t *rapid.T, depth int) any {
	if depth == 0 {
		return rapid.String().Draw(t, "leaf")
	}
	switch rapid.IntRange(0, 3).Draw(t, "shape") {
	case 0:
		return rapid.String().Draw(t, "str")
	case 1:
		n := rapid.IntRange(0, 3).Draw(t, "len")
		arr := make([]any, 0, n)
		for i := 0; i < n; i++ {
			arr = append(arr, genJSONValue(t, depth-1))
		}
		return arr
	case 2:
		return map[string]any{"text": rapid.String().Draw(t, "text")}
	default:
		return map[string]any{"content": genJSONValue(t, depth-1)}
	}
}
