package dataset

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/CafeScraper/internal/exporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"空白", "  \t ", ""},
		{"换行统一", "a\r\nb\rc", "a\nb\nc"},
		{"制表符与多空格", "가\t\t나    다", "가 나 다"},
		{"保留换行", "첫 줄\n 둘째 줄", "첫 줄\n 둘째 줄"},
		{"非字符串", 1272, "1272"},
		{"数值0", 0, ""},
		{"浮点0", 0.0, ""},
		{"JSON数字0", json.Number("0"), ""},
		{"JSON数字", json.Number("76"), "76"},
		{"false", false, ""},
		{"true", true, "true"},
		{"空列表", []any{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestBuild(t *testing.T) {
	rows := []exporter.Row{
		{"title": "제목만", "content_text": ""},
		{"title": "본문", "content_text": "오늘까지  할인\t합니다"},
		{"title": "키 없음"},
		{"title": "긴 본문", "content_text": "가나다라 마바사"},
	}

	t.Run("跳过空正文", func(t *testing.T) {
		got := Build(rows, Options{Label: "광고"})
		assert.Equal(t, []Example{
			{Sentence: "오늘까지 할인 합니다", Label: "광고"},
			{Sentence: "가나다라 마바사", Label: "광고"},
		}, got)
	})

	t.Run("按字符截断", func(t *testing.T) {
		got := Build(rows[3:], Options{MaxChars: 5})
		require.Len(t, got, 1)
		// 截到"가나다라 "后去掉尾部空格
		assert.Equal(t, "가나다라…", got[0].Sentence)
	})

	t.Run("未超长不截断", func(t *testing.T) {
		got := Build(rows[3:], Options{MaxChars: 100})
		assert.Equal(t, "가나다라 마바사", got[0].Sentence)
	})
}

func TestMake(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"rows":[
  {"title":"a","content_text":"첫 번째, 광고 문구"},
  {"title":"b","content_text":"  "}
]}`), 0644))
	output := filepath.Join(dir, "ds", "dataset_ad.csv")

	n, err := Make(input, output, Options{Label: "광고", RequireBody: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Sentence", "Label"},
		{"첫 번째, 광고 문구", "광고"},
	}, records)
}
