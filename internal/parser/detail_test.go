package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/stretchr/testify/assert"
)

const detailFixture = `
<div class="ArticleContentBox">
  <div class="ArticleTitle"><h3 class="title_text">  주말 특가 정리  </h3></div>
  <div class="WriterInfo"><span class="nickname">딜헌터</span></div>
  <div class="article_info"><span class="date">2025.08.09. 10:21</span><span class="count">조회 2,048</span></div>
  <div class="u_likeit_list_btn"><em class="u_cnt">17</em></div>
  <div class="CafeViewer">
    <p>첫 번째 문단입니다</p>
    <p>   </p>
    <p>두 번째 문단입니다</p>
    <ul><li>목록 항목</li></ul>
    <a href="https://shop.example.com/deal?id=1">구매 링크</a>
    <a href="https://shop.example.com/deal?id=1">구매 링크 중복</a>
    <a href="/relative/path">내부 링크</a>
    <a href="javascript:void(0)">스크립트</a>
    <img src="https://img.example.com/a.png" alt="상품 사진">
    <img src="https://img.example.com/b.png">
    <img src="https://img.example.com/a.png" alt="상품 사진">
    <div class="se-caption">사진 설명</div>
  </div>
</div>`

func TestDetailExtract_Fields(t *testing.T) {
	ex := NewDetailExtractor(false, nil)
	d := ex.Extract(context.Background(), mustDoc(t, detailFixture))

	assert.Equal(t, "주말 특가 정리", d.Title)
	assert.Equal(t, "딜헌터", d.Author)
	assert.Equal(t, "2025.08.09. 10:21", d.Date)
	assert.Equal(t, 2048, d.ReadCount)
	assert.Equal(t, 17, d.LikeCount)

	assert.Equal(t, []string{"https://shop.example.com/deal?id=1"}, d.ExternalLinks)
	assert.Equal(t, []string{"https://img.example.com/a.png", "https://img.example.com/b.png"}, d.Images)
	assert.Contains(t, d.ContentHTML, "첫 번째 문단입니다")
	assert.Equal(t, "첫 번째 문단입니다\n두 번째 문단입니다\n목록 항목\n상품 사진\n사진 설명", d.ContentText)
}

func TestDetailExtract_NoContentRoot(t *testing.T) {
	src := `<h3 class="title_text">본문 없는 글</h3><div class="other"><p>무시되는 문단</p></div>`
	d := NewDetailExtractor(false, nil).Extract(context.Background(), mustDoc(t, src))

	assert.Equal(t, "본문 없는 글", d.Title)
	assert.Empty(t, d.ContentText)
	assert.Empty(t, d.ContentHTML)
	assert.NotNil(t, d.ExternalLinks)
	assert.Empty(t, d.ExternalLinks)
	assert.NotNil(t, d.Images)
}

func TestDetailExtract_SmartEditorRoot(t *testing.T) {
	src := `<div class="se-viewer">
  <div class="se-text-paragraph">스마트에디터 본문</div>
  <a class="se-link" href="http://link.example.com">링크</a>
  <span class="se-oglink-thumbnail-resource" src="https://og.example.com/t.jpg"></span>
  <div class="se-oglink-title">미리보기 제목</div>
</div>`
	d := NewDetailExtractor(false, nil).Extract(context.Background(), mustDoc(t, src))

	assert.Equal(t, "스마트에디터 본문\n미리보기 제목", d.ContentText)
	assert.Equal(t, []string{"http://link.example.com"}, d.ExternalLinks)
	assert.Equal(t, []string{"https://og.example.com/t.jpg"}, d.Images)
}

func TestDetailExtract_OCR(t *testing.T) {
	src := `<div class="CafeViewer">
  <p>본문 한 줄</p>
  <img src="text.png">
  <img src="fail.png">
  <img src="blank.png">
  <img src="text-again.png">
</div>`
	rec := &fakeRecognizer{
		available: true,
		texts: map[string]string{
			"text.png":       "  이미지 속 글자  ",
			"blank.png":      "",
			"text-again.png": "이미지 속 글자",
		},
	}
	target := shotQuerier{mustDoc(t, src)}

	tests := []struct {
		name    string
		enabled bool
		avail   bool
		want    string
		calls   int
	}{
		{name: "启用OCR", enabled: true, avail: true, want: "본문 한 줄\n이미지 속 글자", calls: 4},
		{name: "禁用OCR", enabled: false, avail: true, want: "본문 한 줄", calls: 0},
		{name: "识别器不可用", enabled: true, avail: false, want: "본문 한 줄", calls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec.available = tt.avail
			rec.calls = 0
			d := NewDetailExtractor(tt.enabled, rec).Extract(context.Background(), target)
			assert.Equal(t, tt.want, d.ContentText)
			assert.Equal(t, tt.calls, rec.calls)
		})
	}
}

func TestDetailExtract_ElementErrorsAreIsolated(t *testing.T) {
	src := `<h3 class="title_text">제목</h3><div class="nickname">작성자</div>`
	target := brokenTextQuerier{Querier: mustDoc(t, src), broken: "h3.title_text"}

	d := NewDetailExtractor(false, nil).Extract(context.Background(), target)
	assert.Equal(t, "", d.Title)
	assert.Equal(t, "작성자", d.Author)
}

func TestComposeContent(t *testing.T) {
	tests := []struct {
		name string
		body string
		side []string
		ocr  []string
		want string
	}{
		{name: "全部为空", want: ""},
		{name: "只有正文", body: "본문", want: "본문"},
		{name: "合并去重", body: "본문", side: []string{"본문", "설명"}, ocr: []string{"글자"}, want: "본문\n설명\n글자"},
		{name: "清洗后为空时回退到合并文本", body: "=====", want: "====="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, composeContent(tt.body, tt.side, tt.ocr))
		})
	}
}

// fakeRecognizer 按截图内容(即图片src)返回预设文本
type fakeRecognizer struct {
	available bool
	texts     map[string]string
	calls     int
}

func (f *fakeRecognizer) Available() bool { return f.available }

func (f *fakeRecognizer) Recognize(_ context.Context, png []byte) (string, error) {
	f.calls++
	text, ok := f.texts[string(png)]
	if !ok {
		return "", errors.New("识别失败")
	}
	return text, nil
}

// shotQuerier 让静态文档元素支持截图: 截图内容为src属性
type shotQuerier struct{ dom.Querier }

func (q shotQuerier) QueryOne(sel string) (dom.Element, error) {
	el, err := q.Querier.QueryOne(sel)
	if err != nil {
		return nil, err
	}
	return shotElement{el}, nil
}

func (q shotQuerier) QueryAll(sel string) ([]dom.Element, error) {
	els, err := q.Querier.QueryAll(sel)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Element, len(els))
	for i, el := range els {
		out[i] = shotElement{el}
	}
	return out, nil
}

type shotElement struct{ dom.Element }

func (e shotElement) QueryOne(sel string) (dom.Element, error) {
	return shotQuerier{e.Element}.QueryOne(sel)
}

func (e shotElement) QueryAll(sel string) ([]dom.Element, error) {
	return shotQuerier{e.Element}.QueryAll(sel)
}

func (e shotElement) Screenshot() ([]byte, error) {
	src, err := e.Attribute("src")
	if err != nil {
		return nil, err
	}
	return []byte(src), nil
}

// brokenTextQuerier 指定选择器命中的元素读取文本时报错
type brokenTextQuerier struct {
	dom.Querier
	broken string
}

func (q brokenTextQuerier) QueryOne(sel string) (dom.Element, error) {
	el, err := q.Querier.QueryOne(sel)
	if err != nil || sel != q.broken {
		return el, err
	}
	return brokenTextElement{el}, nil
}

type brokenTextElement struct{ dom.Element }

func (brokenTextElement) Text() (string, error) { return "", errors.New("元素已脱离文档") }
