package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog/log"
)

// decompressResponse 根据Content-Encoding解压响应体,未知编码原样返回
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()
		return readAll(reader, "gzip")

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()
		return readAll(reader, "deflate")

	case "br":
		return readAll(brotli.NewReader(bytes.NewReader(body)), "brotli")

	case "", "identity":
		return body, nil

	default:
		log.Warn().Str("encoding", contentEncoding).Msg("未知的Content-Encoding")
		return body, nil
	}
}

func readAll(r io.Reader, name string) ([]byte, error) {
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s读取失败: %w", name, err)
	}
	return out, nil
}
