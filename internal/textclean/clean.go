// Package textclean 清洗正文文本,供分类模型训练使用
//
// Clean 是幂等的: Clean(Clean(s)) == Clean(s)。
package textclean

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// 分隔符连续出现的阈值,达到即视为噪声;保留行中的长串折叠为 keepRun 个
	separatorRun = 3
	keepRun      = 2

	symbolOnlyMaxLen = 20
	shortLineMaxLen  = 50
	denseLineMaxLen  = 30
)

// separators 视为分隔线的字符
const separators = "-=_~*#+.·•…|/\\<>─━═―ㅡ▶▷◀◁►◆◇■□●○★☆※"

var (
	clockPattern   = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
	newlinePattern = regexp.MustCompile(`\r\n|\r|\n`)
	hspacePattern  = regexp.MustCompile(`[^\S\n\r]+`)
)

// Clean 清洗文本
//  1. 去掉控制字符与零宽字符,NFKC归一化,折叠水平空白
//  2. 按行切分并丢弃噪声行
//  3. 折叠分隔符长串,按归一化键去重(保留首次出现)
//  4. 换行拼接并去掉首尾空白
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = stripInvisible(text)
	text = norm.NFKC.String(text)
	text = hspacePattern.ReplaceAllString(text, " ")

	seen := make(map[string]struct{})
	kept := make([]string, 0)
	for _, line := range newlinePattern.Split(text, -1) {
		line = strings.TrimSpace(line)
		if IsNoise(line) {
			continue
		}
		line = collapseSeparators(line)
		key := dedupKey(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// stripInvisible 去掉控制字符(保留换行与制表)和零宽字符
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return r
		case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
			return -1
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// IsNoise 判断单行是否为噪声(时间戳、分隔线、符号行、过短行等)
func IsNoise(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	st := Stats(line)
	n := st.Len

	if n <= 1 {
		return true
	}
	if clockPattern.MatchString(line) && st.Letter() < 0.35 && st.Other+st.Space > 0.4 {
		return true
	}
	if hasSeparatorRun(line) {
		return true
	}
	if n <= symbolOnlyMaxLen && symbolsOnly(line) {
		return true
	}
	if n <= shortLineMaxLen && (st.Other >= 0.40 || st.Letter() < 0.30) {
		return true
	}
	if st.Space < 0.02 && st.Letter() < 0.35 && n <= denseLineMaxLen {
		return true
	}
	return false
}

// CharStats 单行字符构成比例
type CharStats struct {
	Len    int
	Hangul float64
	Latin  float64
	Digit  float64
	Space  float64
	Other  float64 // 符号及其它,由剩余部分推出
}

// Letter 韩文+拉丁字母比例
func (s CharStats) Letter() float64 {
	return s.Hangul + s.Latin
}

// Stats 统计字符比例
func Stats(line string) CharStats {
	n := utf8.RuneCountInString(line)
	if n == 0 {
		return CharStats{}
	}
	var hangul, latin, digit, space int
	for _, r := range line {
		switch {
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.Is(unicode.Latin, r) && unicode.IsLetter(r):
			latin++
		case unicode.IsDigit(r):
			digit++
		case unicode.IsSpace(r):
			space++
		}
	}
	f := float64(n)
	st := CharStats{
		Len:    n,
		Hangul: float64(hangul) / f,
		Latin:  float64(latin) / f,
		Digit:  float64(digit) / f,
		Space:  float64(space) / f,
	}
	st.Other = float64(n-hangul-latin-digit-space) / f
	return st
}

func isSeparator(r rune) bool {
	return strings.ContainsRune(separators, r)
}

// hasSeparatorRun 同一分隔符连续出现达到阈值
func hasSeparatorRun(line string) bool {
	var prev rune
	run := 0
	for _, r := range line {
		if isSeparator(r) && r == prev {
			run++
		} else if isSeparator(r) {
			run = 1
		} else {
			run = 0
		}
		if run >= separatorRun {
			return true
		}
		prev = r
	}
	return false
}

func symbolsOnly(line string) bool {
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !isSeparator(r) {
			return false
		}
	}
	return true
}

// collapseSeparators 将分隔符长串折叠为 keepRun 个
func collapseSeparators(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	var prev rune
	run := 0
	for _, r := range line {
		if isSeparator(r) && r == prev {
			run++
		} else {
			run = 1
		}
		prev = r
		if isSeparator(r) && run > keepRun {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dedupKey 只保留字母、数字(含韩文),大小写折叠
func dedupKey(line string) string {
	var b strings.Builder
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return cases.Fold().String(b.String())
}
