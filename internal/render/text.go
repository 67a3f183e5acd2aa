package render

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type CodeBlock struct {
	Language string
	Code     string
}

// ExtractCodeBlocks returns the closed fenced blocks in text, using the same
// fence rules as Render.
func ExtractCodeBlocks(text string) []CodeBlock {
	var blocks []CodeBlock
	for _, m := range fencedRe.FindAllStringSubmatch(text, -1) {
		lang := m[1]
		if lang == "" {
			lang = "text"
		}
		blocks = append(blocks, CodeBlock{
			Language: lang,
			Code:     strings.TrimSpace(m[2]),
		})
	}
	return blocks
}

func Truncate(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen]) + "..."
}

func CapitalizeFirst(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

func FormatTimestamp(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}
