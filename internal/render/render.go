// Package render turns the markdown-flavoured text produced by the simulator
// into HTML that is safe to insert into a page as-is.
//
// Supported markup, applied in this order after the whole input is escaped:
//
//	```lang\ncode```   -> <pre><code class="language-lang">code</code></pre>
//	`code`             -> <code>code</code>
//	**text**           -> <strong>text</strong>
//	*text*             -> <em>text</em>
//	https://...        -> <a href="..." target="_blank" rel="noopener noreferrer">...</a>
//	newline            -> <br>
//
// Code produced by the first two steps is never touched by the later ones.
// Nested emphasis is not supported, and Render is not idempotent: rendering
// its own output escapes the markup again.
package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	fencedRe     = regexp.MustCompile("```(\\w+)?\n([\\s\\S]*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*\n]+)\*`)
	// & is only allowed as &amp; so escaped quotes (&#34;, &#39;) end a URL.
	urlRe = regexp.MustCompile("https?://(?:[^\\s<>\"{}|\\\\^`\\[\\]&]|&amp;)+")
)

type segment struct {
	html      string
	protected bool
}

func Render(text string) string {
	segs := []segment{{html: EscapeHTML(text)}}

	segs = protect(segs, fencedRe, func(m []string) string {
		lang := m[1]
		if lang == "" {
			lang = "text"
		}
		return `<pre><code class="language-` + lang + `">` + strings.TrimSpace(m[2]) + "</code></pre>"
	})
	segs = protect(segs, inlineCodeRe, func(m []string) string {
		return "<code>" + m[1] + "</code>"
	})

	var sb strings.Builder
	for _, seg := range segs {
		if seg.protected {
			sb.WriteString(seg.html)
			continue
		}
		sb.WriteString(formatInline(seg.html))
	}
	return sb.String()
}

func formatInline(s string) string {
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicize(s)
	s = urlRe.ReplaceAllString(s, `<a href="$0" target="_blank" rel="noopener noreferrer">$0</a>`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

// italicize wraps *text* in <em>. A marker touching another asterisk belongs
// to a doubled pair and stays literal.
func italicize(s string) string {
	var sb strings.Builder
	last, pos := 0, 0
	for pos < len(s) {
		loc := italicRe.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if (start > 0 && s[start-1] == '*') || (end < len(s) && s[end] == '*') {
			pos = start + 1
			continue
		}
		sb.WriteString(s[last:start])
		sb.WriteString("<em>" + s[pos+loc[2]:pos+loc[3]] + "</em>")
		last, pos = end, end
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// protect splits every unprotected segment around matches of re, replacing
// each match with the protected markup returned by wrap.
func protect(segs []segment, re *regexp.Regexp, wrap func(m []string) string) []segment {
	out := make([]segment, 0, len(segs))
	for _, seg := range segs {
		if seg.protected {
			out = append(out, seg)
			continue
		}

		last := 0
		for _, loc := range re.FindAllStringSubmatchIndex(seg.html, -1) {
			if loc[0] > last {
				out = append(out, segment{html: seg.html[last:loc[0]]})
			}
			out = append(out, segment{html: wrap(submatches(seg.html, loc)), protected: true})
			last = loc[1]
		}
		if last < len(seg.html) {
			out = append(out, segment{html: seg.html[last:]})
		}
	}
	return out
}

func submatches(s string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// EscapeHTML escapes &, <, >, " and ' for user-authored text that is shown
// verbatim rather than rendered.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}
