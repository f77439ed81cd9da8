package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<table class="article-table"><tbody><tr><td>네이버 카페</td></tr></tbody></table>`

func compress(t *testing.T, encoding string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch encoding {
	case "gzip":
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "deflate":
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "br":
		w := brotli.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		return data
	}
	return buf.Bytes()
}

func TestDecompressResponse(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
	}{
		{"gzip压缩", "gzip"},
		{"deflate压缩", "deflate"},
		{"brotli压缩", "br"},
		{"编码大小写与空白", " BR "},
		{"无压缩", ""},
		{"identity", "identity"},
		{"未知编码原样返回", "zstd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := compress(t, normalizeEncoding(tt.encoding), []byte(samplePage))
			out, err := decompressResponse(tt.encoding, body)
			require.NoError(t, err)
			assert.Equal(t, samplePage, string(out))
		})
	}
}

func TestDecompressResponse_Corrupt(t *testing.T) {
	_, err := decompressResponse("gzip", []byte("not gzip"))
	assert.Error(t, err)
}

func normalizeEncoding(s string) string {
	if s == " BR " {
		return "br"
	}
	return s
}
