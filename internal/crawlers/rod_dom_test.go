package crawlers

import (
	"testing"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRodPage 需要本机已安装Chrome/Chromium,否则跳过
func newTestRodPage(t *testing.T, html string) *rodPage {
	t.Helper()
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("未找到本地浏览器")
	}
	src, err := NewDynamicSource(DynamicConfig{Headless: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	p, err := src.NewPage()
	require.NoError(t, err)
	rp := p.(*rodPage)
	require.NoError(t, rp.page.SetDocumentContent(html))
	return rp
}

func TestRodTarget_WaitForSelectorKeepsPageContext(t *testing.T) {
	page := newTestRodPage(t, `<div class="se-viewer"><p>본문</p></div>`)

	for i := 0; i < 20; i++ {
		require.NoError(t, page.WaitForSelector(".se-viewer", time.Second))
	}
	err := page.WaitForSelector(".CafeViewer", 50*time.Millisecond)
	assert.ErrorIs(t, err, dom.ErrTimeout)

	// 等待超时只作用于单次调用,页面本身仍可使用
	assert.NoError(t, page.page.GetContext().Err())
	el, err := page.QueryOne(".se-viewer p")
	require.NoError(t, err)
	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "본문", text)
}
