package render_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/strrl/agentsim/internal/render"
	"github.com/strrl/agentsim/internal/simulator"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "plain text", "plain text"},
		{"empty", "", ""},
		{"bold", "**bold**", "<strong>bold</strong>"},
		{"italic", "*soft*", "<em>soft</em>"},
		{"bold then italic", "**b** and *i*", "<strong>b</strong> and <em>i</em>"},
		{"lone asterisk", "2 * 3", "2 * 3"},
		{"only asterisks", "****", "****"},
		{"unbalanced doubled opener", "**a*", "**a*"},
		{"unbalanced doubled closer", "*a**", "*a**"},
		{"doubled then single", "2 ** 3 * 4", "2 ** 3 * 4"},
		{"bold inside italic", "*x **y** z*", "<em>x <strong>y</strong> z</em>"},
		{"inline code", "`code`", "<code>code</code>"},
		{"inline code keeps markup literal", "`**x** <y>`", "<code>**x** &lt;y&gt;</code>"},
		{"line breaks", "a\nb\n\nc", "a<br>b<br><br>c"},
		{
			"escapes html",
			`<script>alert('x')</script> & "q"`,
			"&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt; &amp; &#34;q&#34;",
		},
		{
			"fenced with language",
			"```python\nif a < b:\n    pass\n```",
			"<pre><code class=\"language-python\">if a &lt; b:\n    pass</code></pre>",
		},
		{
			"fenced without language",
			"Run:\n```\nls -la\n```\ndone",
			"Run:<br><pre><code class=\"language-text\">ls -la</code></pre><br>done",
		},
		{"empty fence", "```\n```", "<pre><code class=\"language-text\"></code></pre>"},
		{
			"fence content untouched by inline rules",
			"```\n**x** *y* `z` https://example.com\n```",
			"<pre><code class=\"language-text\">**x** *y* `z` https://example.com</code></pre>",
		},
		{"unterminated fence", "```python\nprint(1)", "```python<br>print(1)"},
		{
			"autolink",
			"see https://example.com/a?x=1&y=2 now",
			`see <a href="https://example.com/a?x=1&amp;y=2" target="_blank" rel="noopener noreferrer">https://example.com/a?x=1&amp;y=2</a> now`,
		},
		{
			"autolink stops at quote",
			`"https://example.com"`,
			`&#34;<a href="https://example.com" target="_blank" rel="noopener noreferrer">https://example.com</a>&#34;`,
		},
		{
			"autolink inside bold",
			"**http://example.com**",
			`<strong><a href="http://example.com" target="_blank" rel="noopener noreferrer">http://example.com</a></strong>`,
		},
		{"no autolink in code", "`https://example.com`", "<code>https://example.com</code>"},
		{"not a url", "ftp://example.com", "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.Render(tt.in))
		})
	}
}

func TestRender_NotIdempotent(t *testing.T) {
	once := render.Render("**bold** <b>")
	require.Equal(t, "<strong>bold</strong> &lt;b&gt;", once)

	// A second pass treats the first pass's markup as text.
	twice := render.Render(once)
	assert.Equal(t, "&lt;strong&gt;bold&lt;/strong&gt; &amp;lt;b&amp;gt;", twice)
}

func TestRender_LongInput(t *testing.T) {
	in := strings.Repeat("word ", 2_000) + "**end**"
	out := render.Render(in)
	assert.True(t, strings.HasSuffix(out, "<strong>end</strong>"))
	assert.Len(t, out, len(in)-4+len("<strong></strong>"))
}

var allowedElements = map[string]bool{
	"html": true, "head": true, "body": true,
	"pre": true, "code": true, "strong": true, "em": true, "a": true, "br": true,
}

// TestRender_SimulatorOutputIsSafe renders every canned response around a
// hostile input and checks that only renderer-generated elements survive.
func TestRender_SimulatorOutputIsSafe(t *testing.T) {
	sim := simulator.New(simulator.Config{
		Now: func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) },
	})

	hostile := `<img src=x onerror="alert(1)"> "><iframe>`
	inputs := []string{
		"python " + hostile,
		"fibonacci code " + hostile,
		"file " + hostile,
		"search " + hostile,
		"plan " + hostile,
		"data " + hostile,
		hostile,
	}

	for _, input := range inputs {
		text, err := sim.ClassifyAndRespond(context.Background(), input)
		require.NoError(t, err)

		doc, err := html.Parse(strings.NewReader(render.Render(text)))
		require.NoError(t, err)

		walk(doc, func(n *html.Node) {
			if n.Type != html.ElementNode {
				return
			}
			assert.True(t, allowedElements[n.Data], "unexpected element <%s> for %q", n.Data, input)
			for _, attr := range n.Attr {
				assert.NotEqual(t, "onerror", attr.Key)
			}
			if n.Data == "a" {
				assert.Equal(t, "noopener noreferrer", attrValue(n, "rel"))
				assert.Equal(t, "_blank", attrValue(n, "target"))
			}
		})
	}
}

func TestRender_CodeBlockLanguage(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(render.Render("```go\nfmt.Println(\"<hi>\")\n```")))
	require.NoError(t, err)

	var classes, texts []string
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "code" {
			classes = append(classes, attrValue(n, "class"))
			if n.FirstChild != nil {
				texts = append(texts, n.FirstChild.Data)
			}
		}
	})

	assert.Equal(t, []string{"language-go"}, classes)
	// Escaped exactly once: the parser decodes back to the code as written.
	assert.Equal(t, []string{`fmt.Println("<hi>")`}, texts)
}

func TestExtractCodeBlocks(t *testing.T) {
	text := "intro\n```python\nprint(1)\n```\nmiddle\n```\n  raw  \n```\n```go\nunterminated"

	want := []render.CodeBlock{
		{Language: "python", Code: "print(1)"},
		{Language: "text", Code: "raw"},
	}
	if diff := cmp.Diff(want, render.ExtractCodeBlocks(text)); diff != "" {
		t.Errorf("ExtractCodeBlocks mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, render.ExtractCodeBlocks("no code here"))
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "short", render.Truncate("short", 10))
	assert.Equal(t, "hello...", render.Truncate("hello world", 5))
	assert.Equal(t, "héll...", render.Truncate("héllo", 4))
	assert.Equal(t, "...", render.Truncate("abc", -1))

	assert.Equal(t, "Hello", render.CapitalizeFirst("hello"))
	assert.Equal(t, "Élan", render.CapitalizeFirst("élan"))
	assert.Equal(t, "", render.CapitalizeFirst(""))

	ts := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	assert.Equal(t, "Mar 5, 2024, 02:07 PM", render.FormatTimestamp(ts))

	assert.Equal(t, "&lt;b&gt;&amp;", render.EscapeHTML("<b>&"))
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
