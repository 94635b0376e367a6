package llm

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMime string
		wantData string
		wantOK   bool
	}{
		{"png image", "data:image/png;base64,aGVsbG8=", "image/png", "aGVsbG8=", true},
		{"pdf", "data:application/pdf;base64,QUJD", "application/pdf", "QUJD", true},
		{"no data prefix", "image/png;base64,aGVsbG8=", "", "", false},
		{"no base64 marker", "data:image/png,aGVsbG8=", "", "", false},
		{"empty payload", "data:image/png;base64,", "", "", false},
		{"empty mime", "data:;base64,aGVsbG8=", "", "", false},
		{"mime without slash", "data:png;base64,aGVsbG8=", "", "", false},
		{"charset variant rejected", "data:text/plain;charset=utf-8;base64,aGVsbG8=", "", "", false},
		{"plain url", "https://example.com/cat.png", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data, ok := DecodeDataURL(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMime, mime)
			assert.Equal(t, tt.wantData, data)
		})
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff})
	url := EncodeDataURL("image/png", payload)

	mime, data, ok := DecodeDataURL(url)
	require.True(t, ok)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, payload, data, "base64 payload must survive the round trip byte for byte")
}
