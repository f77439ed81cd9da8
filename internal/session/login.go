package session

import (
	"context"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
)

// 页面上出现这些元素说明尚未登录
const loginButtonSelector = "a#gnb_login_button, a.link_login, .link_login"

// PromptLogin 检测登录按钮: 存在时点击并等待用户在浏览器中手动登录,
// 无论是否需要登录,最后都把当前cookie保存到会话文件
func PromptLogin(ctx context.Context, page dom.Querier, jar CookieJar, store *Store, wait time.Duration) error {
	btn, err := page.QueryOne(loginButtonSelector)
	if err == nil && btn != nil {
		utils.Infof("🔐 需要登录NAVER: 请在浏览器中完成登录,%v 后继续", wait)
		if err := btn.Click(); err != nil {
			utils.Debugf("点击登录按钮失败: %v", err)
		}

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err := store.Save(jar); err != nil {
			return err
		}
		utils.Infof("💾 会话已保存: %s", store.Path)
		return nil
	}

	if err := store.Save(jar); err != nil {
		return err
	}
	utils.Infof("💾 已处于登录状态,会话已保存: %s", store.Path)
	return nil
}
