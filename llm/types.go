package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProviderName 受支持提供商的封闭枚举。
// 枚举之外的取值是配置错误，不做静默兜底。
type ProviderName string

const (
	ProviderGemini   ProviderName = "gemini"
	ProviderOpenAI   ProviderName = "openai"
	ProviderDeepSeek ProviderName = "deepseek"
)

// Valid 报告 p 是否属于受支持的提供商集合。
func (p ProviderName) Valid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek:
		return true
	}
	return false
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockKind 内容块类别标签。
type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockImage BlockKind = "image"
)

// ContentBlock 多模态消息的一个单元：文本或图片引用。
// 图片引用携带 base64 数据与 MIME 类型（由 data URL 拆解而来），
// 或仅携带远程 URL（未拆解，Gemini 归一化时会丢弃）。
type ContentBlock struct {
	Kind     BlockKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Data     string    `json:"data,omitempty"` // base64 编码的图片数据
	MIMEType string    `json:"mime_type,omitempty"`
	URL      string    `json:"url,omitempty"` // 非 data URL 的原始引用
}

// UnmarshalJSON 接受调用方的 OpenAI 风格结构化内容：
// {"type":"text","text":...} 或 {"type":"image_url","image_url":{"url":...}}。
// data URL 在此处拆解为 Data+MIMEType；拆不开的 URL 原样保留。
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL *struct {
			URL string `json:"url"`
		} `json:"image_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "image_url":
		b.Kind = BlockImage
		if raw.ImageURL == nil {
			return nil
		}
		if mime, payload, ok := DecodeDataURL(raw.ImageURL.URL); ok {
			b.MIMEType = mime
			b.Data = payload
		} else {
			b.URL = raw.ImageURL.URL
		}
	default:
		b.Kind = BlockText
		b.Text = raw.Text
	}
	return nil
}

// MarshalJSON 输出与 UnmarshalJSON 对称的结构化内容。
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	if b.Kind == BlockImage {
		url := b.URL
		if b.Data != "" {
			url = EncodeDataURL(b.MIMEType, b.Data)
		}
		return json.Marshal(map[string]any{
			"type":      "image_url",
			"image_url": map[string]string{"url": url},
		})
	}
	return json.Marshal(map[string]string{"type": "text", "text": b.Text})
}

// Message 规范请求中的一个消息轮次。
// Content 与 Blocks 互斥：字符串内容走 Content，结构化内容走 Blocks。
type Message struct {
	Role    Role
	Content string
	Blocks  []ContentBlock
}

type messageWire struct {
	Role    Role            `json:"role"`
	Content json.RawMessage `json:"content"`
}

// UnmarshalJSON 处理 content 的联合类型：字符串、内容块数组，
// 其余形状序列化为字符串（与调用方宽松输入保持兼容）。
func (m *Message) UnmarshalJSON(data []byte) error {
	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Role = w.Role
	m.Content = ""
	m.Blocks = nil
	if len(w.Content) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(w.Content, &s); err == nil {
		m.Content = s
		return nil
	}
	var blocks []ContentBlock
	if err := json.Unmarshal(w.Content, &blocks); err == nil {
		m.Blocks = blocks
		return nil
	}
	m.Content = string(w.Content)
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.Blocks) > 0 {
		content, err := json.Marshal(m.Blocks)
		if err != nil {
			return nil, err
		}
		return json.Marshal(messageWire{Role: m.Role, Content: content})
	}
	content, err := json.Marshal(m.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(messageWire{Role: m.Role, Content: content})
}

// IsEmpty 报告消息是否既无文本也无内容块。
func (m Message) IsEmpty() bool {
	return m.Content == "" && len(m.Blocks) == 0
}

// Attachment 随请求附带的文件。生命周期仅限单次请求，
// 本层不缓存、不持久化任何派生产物。
type Attachment struct {
	Bytes    []byte `json:"bytes"`
	MIMEType string `json:"mime_type"`
	FileName string `json:"file_name,omitempty"`

	// PreUpload 显式选择"先上传、按 id 引用"的传输方式。
	// 仅对图片类型且目标提供商具备文件上传端点时生效。
	PreUpload bool `json:"pre_upload,omitempty"`

	// FileID 由 Bridge 在预上传完成后填入，调用方不应设置。
	FileID string `json:"-"`
}

// GenerateRequest 规范的提供商无关请求。
// Temperature 与 MaxOutputTokens 使用指针区分"未提供"与"显式零值"：
// 未提供时 Gemini 整体省略 generationConfig，OpenAI 系采用固定默认值。
type GenerateRequest struct {
	TraceID           string          `json:"trace_id,omitempty"`
	Provider          ProviderName    `json:"provider"`
	Model             string          `json:"model,omitempty"`
	SystemInstruction string          `json:"system_instruction,omitempty"`
	Messages          []Message       `json:"messages"`
	Attachments       []Attachment    `json:"attachments,omitempty"`
	Temperature       *float32        `json:"temperature,omitempty"`
	MaxOutputTokens   *int            `json:"max_output_tokens,omitempty"`
	ResponseSchema    json.RawMessage `json:"response_schema,omitempty"` // Gemini 结构化输出
	ResponseMIMEType  string          `json:"response_mime_type,omitempty"`
}

// Validate 做提供商无关的前置校验，任何网络调用之前执行。
func (r *GenerateRequest) Validate() error {
	if r == nil {
		return &Error{Kind: KindConfiguration, Message: "nil request"}
	}
	if !r.Provider.Valid() {
		return &Error{
			Kind:    KindConfiguration,
			Message: fmt.Sprintf("unsupported provider %q", r.Provider),
		}
	}
	if len(r.Messages) == 0 && len(r.Attachments) == 0 {
		return &Error{
			Kind:     KindConfiguration,
			Message:  "request has no messages and no attachments",
			Provider: string(r.Provider),
		}
	}
	return nil
}

// Clone 返回请求的浅层安全副本：消息与附件切片独立，
// Bridge 的附件预处理不会改写调用方持有的请求。
func (r *GenerateRequest) Clone() *GenerateRequest {
	if r == nil {
		return nil
	}
	out := *r
	out.Messages = append([]Message(nil), r.Messages...)
	out.Attachments = append([]Attachment(nil), r.Attachments...)
	return &out
}

// Usage token 用量，来自提供商响应，本层从不自行估算。
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// GenerateResult 归一化成功结果。Text 永不为 nil 语义：
// 提供商显式返回空内容时 Text 为空字符串，这不是错误。
type GenerateResult struct {
	Text     string `json:"text"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Usage    Usage  `json:"usage,omitempty"`
}

// Model 统一的模型描述。
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// HealthStatus Provider 健康检查结果。
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
}
