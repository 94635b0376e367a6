package openaicompat

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/mealforge/llmbridge/llm"
	"github.com/mealforge/llmbridge/llm/providers"
)

// 上传用途固定为 vision：端点对该用途只接受图片，
// 这正是 PDF 被分类层刻意路由到内联传输的原因。
const uploadPurpose = "vision"

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// UploadFile 通过独立文件端点上传并返回不透明文件 id。
// 仅在 SupportsFileUpload 开启时可用。
func (p *Provider) UploadFile(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	if !p.Cfg.SupportsFileUpload {
		return "", llm.ConfigurationError(p.Name(), "%s has no file upload endpoint", p.Name())
	}
	if err := providers.RequireAPIKey(p.Cfg.APIKey, p.Name()); err != nil {
		return "", err
	}
	if fileName == "" {
		fileName = "attachment"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := writer.WriteField("purpose", uploadPurpose); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(p.Cfg.FilesEndpoint), body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.Cfg.APIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", providers.NetworkError(err, p.Name())
	}
	defer providers.SafeCloseBody(resp.Body)

	if resp.StatusCode >= 400 {
		msg := providers.ReadErrorMessage(resp.StatusCode, resp.Body)
		return "", providers.MapHTTPError(resp.StatusCode, msg, p.Name())
	}

	var fileResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fileResp); err != nil {
		return "", providers.DecodeError(err, p.Name())
	}
	if fileResp.ID == "" {
		return "", llm.EmptyResponseError(p.Name(), "file upload returned no id")
	}
	return fileResp.ID, nil
}

// DeleteFile 删除已上传文件。调用侧把失败当尽力而为的清理处理。
func (p *Provider) DeleteFile(ctx context.Context, fileID string) error {
	if !p.Cfg.SupportsFileUpload {
		return llm.ConfigurationError(p.Name(), "%s has no file upload endpoint", p.Name())
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		p.endpoint(p.Cfg.FilesEndpoint+"/"+fileID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	providers.BearerTokenHeaders(httpReq, p.Cfg.APIKey)

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return providers.NetworkError(err, p.Name())
	}
	defer providers.SafeCloseBody(resp.Body)

	if resp.StatusCode >= 400 {
		msg := providers.ReadErrorMessage(resp.StatusCode, resp.Body)
		return providers.MapHTTPError(resp.StatusCode, msg, p.Name())
	}
	return nil
}
