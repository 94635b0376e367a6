package docconv

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForAttachment(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		fileName string
		wantErr  error
		wantType any
	}{
		{"pdf by mime", "application/pdf", "", nil, pdfExtractor{}},
		{"pdf by extension", "application/octet-stream", "report.PDF", nil, pdfExtractor{}},
		{"docx by mime", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "", nil, docxExtractor{}},
		{"docx by extension", "", "memo.docx", nil, docxExtractor{}},
		{"legacy doc by mime", "application/msword", "", ErrLegacyDocUnsupported, nil},
		{"legacy doc by extension", "", "memo.doc", ErrLegacyDocUnsupported, nil},
		{"plain text", "text/plain", "", nil, plainTextExtractor{}},
		{"markdown", "text/markdown", "", nil, plainTextExtractor{}},
		{"json", "application/json", "", nil, plainTextExtractor{}},
		{"binary blob", "application/zip", "a.zip", ErrUnsupportedFormat, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := ForAttachment(tt.mimeType, tt.fileName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, ex)
		})
	}
}

func TestPlainTextExtractor(t *testing.T) {
	ex := plainTextExtractor{}

	out, err := ex.ExtractText([]byte("hello\nworld"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", out)

	_, err = ex.ExtractText([]byte{0xff, 0xfe, 0x00})
	assert.Error(t, err, "invalid UTF-8 must fail instead of producing garbage")
}

// buildDocx 在内存中构造最小 OOXML 容器。
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxExtractor(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	out, err := docxExtractor{}.ExtractText(buildDocx(t, docXML))
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", out)
}

func TestDocxExtractorNotAZip(t *testing.T) {
	_, err := docxExtractor{}.ExtractText([]byte("definitely not a zip"))
	assert.Error(t, err)
}

func TestDocxExtractorMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte("<x/>"))
	require.NoError(t, zw.Close())

	_, err = docxExtractor{}.ExtractText(buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml")
}
