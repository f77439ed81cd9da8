// Package crawlers 提供页面来源与frame定位
//
// # 页面来源
//
// DynamicSource 基于go-rod驱动真实浏览器,支持登录、iframe与元素截图(OCR)。
// StaticSource 基于colly直接抓取HTML,解析交给goquery文档,适用于服务端渲染的旧版皮肤。
//
// 两者都实现 NewPage / Cookies / SetCookies / Close,由core包的采集器按顺序驱动:
//
//	source, err := crawlers.NewDynamicSource(crawlers.DynamicConfig{Headless: true, Headers: headers})
//	if err != nil {
//		return err
//	}
//	defer source.Close()
//	page, err := source.NewPage()
//
// # frame定位
//
// NAVER Cafe的列表位于 iframe#cafe_main 中。FrameResolver 依次尝试
// cafe_main、URL关键字匹配,最后退回页面本身,从不返回错误。
//
// # 资源检查
//
// ResourceMonitor 在启动浏览器前采样系统内存与CPU,资源紧张时输出警告,
// 采样结果同时写入运行报告。
package crawlers
