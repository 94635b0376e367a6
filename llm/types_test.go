package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageUnmarshalStringContent(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":"Hello"}`), &m))
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "Hello", m.Content)
	assert.Empty(t, m.Blocks)
}

func TestMessageUnmarshalBlockContent(t *testing.T) {
	raw := `{"role":"user","content":[
		{"type":"text","text":"look at this"},
		{"type":"image_url","image_url":{"url":"data:image/jpeg;base64,Zm9v"}},
		{"type":"image_url","image_url":{"url":"https://example.com/a.png"}}
	]}`
	var m Message
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	require.Len(t, m.Blocks, 3)

	assert.Equal(t, BlockText, m.Blocks[0].Kind)
	assert.Equal(t, "look at this", m.Blocks[0].Text)

	// 严格 data URL 在解析边界拆解为 Data+MIMEType
	assert.Equal(t, BlockImage, m.Blocks[1].Kind)
	assert.Equal(t, "image/jpeg", m.Blocks[1].MIMEType)
	assert.Equal(t, "Zm9v", m.Blocks[1].Data)
	assert.Empty(t, m.Blocks[1].URL)

	// 远程 URL 保留原样，不拆解
	assert.Equal(t, BlockImage, m.Blocks[2].Kind)
	assert.Equal(t, "https://example.com/a.png", m.Blocks[2].URL)
	assert.Empty(t, m.Blocks[2].Data)
}

func TestMessageUnmarshalOtherShapeStringified(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":{"foo":1}}`), &m))
	assert.JSONEq(t, `{"foo":1}`, m.Content)
}

func TestMessageMarshalRoundTrip(t *testing.T) {
	in := Message{Role: RoleUser, Blocks: []ContentBlock{
		{Kind: BlockText, Text: "hi"},
		{Kind: BlockImage, Data: "Zm9v", MIMEType: "image/png"},
	}}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Message
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestProviderNameValid(t *testing.T) {
	assert.True(t, ProviderGemini.Valid())
	assert.True(t, ProviderOpenAI.Valid())
	assert.True(t, ProviderDeepSeek.Valid())
	assert.False(t, ProviderName("claude").Valid())
	assert.False(t, ProviderName("").Valid())
}

func TestGenerateRequestValidate(t *testing.T) {
	req := &GenerateRequest{Provider: "anthropic", Messages: []Message{{Role: RoleUser, Content: "x"}}}
	err := req.Validate()
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindConfiguration, e.Kind, "unknown provider is a configuration error, never a silent default")

	req = &GenerateRequest{Provider: ProviderGemini}
	err = req.Validate()
	require.Error(t, err)

	// 附件单独构成一轮时允许消息为空
	req = &GenerateRequest{Provider: ProviderGemini, Attachments: []Attachment{{MIMEType: "image/png"}}}
	assert.NoError(t, req.Validate())
}

func TestGenerateRequestClone(t *testing.T) {
	orig := &GenerateRequest{
		Provider:    ProviderOpenAI,
		Messages:    []Message{{Role: RoleUser, Content: "a"}},
		Attachments: []Attachment{{MIMEType: "image/png"}},
	}
	clone := orig.Clone()
	clone.Messages = append(clone.Messages, Message{Role: RoleUser, Content: "b"})
	clone.Attachments[0].FileID = "file-123"

	assert.Len(t, orig.Messages, 1, "clone must not leak appends into the original")
	assert.Empty(t, orig.Attachments[0].FileID)
}
