// Package session 管理登录会话(cookie)的持久化与复用
//
// 会话文件格式与Playwright的storage state保持一致: {"cookies": [...], "origins": []}
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/CafeScraper/internal/utils"
)

// ErrNoSession 会话文件不存在
var ErrNoSession = errors.New("会话文件不存在")

// Cookie 单个cookie,字段名与storage state一致
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// State 会话文件内容
type State struct {
	Cookies []Cookie          `json:"cookies"`
	Origins []json.RawMessage `json:"origins"`
}

// CookieJar 可以读写cookie的浏览上下文(浏览器或HTTP客户端)
type CookieJar interface {
	Cookies() ([]Cookie, error)
	SetCookies(cookies []Cookie) error
}

// Store 会话文件存储
type Store struct {
	Path string
}

// NewStore 创建会话存储
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load 读取会话文件
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, ErrNoSession
		}
		return State{}, fmt.Errorf("读取会话文件失败: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("解析会话文件失败 [%s]: %w", s.Path, err)
	}
	return state, nil
}

// Restore 把会话文件中的cookie装入jar,文件不存在时返回ErrNoSession
func (s *Store) Restore(jar CookieJar) (int, error) {
	state, err := s.Load()
	if err != nil {
		return 0, err
	}
	if len(state.Cookies) == 0 {
		return 0, nil
	}
	if err := jar.SetCookies(state.Cookies); err != nil {
		return 0, fmt.Errorf("恢复cookie失败: %w", err)
	}
	return len(state.Cookies), nil
}

// Save 从jar导出cookie并写入会话文件
// 先写临时文件再rename,中途失败不会破坏已有的会话文件
func (s *Store) Save(jar CookieJar) error {
	cookies, err := jar.Cookies()
	if err != nil {
		return fmt.Errorf("导出cookie失败: %w", err)
	}
	if cookies == nil {
		cookies = []Cookie{}
	}
	state := State{Cookies: cookies, Origins: []json.RawMessage{}}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}

	if err := utils.EnsureDir(filepath.Dir(s.Path)); err != nil {
		return err
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("写入会话文件失败: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("写入会话文件失败: %w", err)
	}
	return nil
}
