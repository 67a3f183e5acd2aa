package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/agentsim/internal/aggregator"
	"github.com/strrl/agentsim/internal/pipeline"
	"github.com/strrl/agentsim/internal/render"
	"github.com/strrl/agentsim/internal/simulator"
)

func sampleExchanges() []pipeline.Exchange {
	return []pipeline.Exchange{
		{
			Line:  1,
			Input: "search <b>news</b>",
			Response: &simulator.Response{
				Category:  simulator.CategoryWebSearch,
				Text:      "**Tool Used:** web_search\nURL: https://example.com",
				Delay:     2 * time.Second,
				CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			},
		},
		{Line: 2, Err: errors.New("invalid input: expected string, got int64")},
		{
			Line:  3,
			Input: "python",
			Response: &simulator.Response{
				Category: simulator.CategoryCodeExecution,
				Text:     "```python\nprint(1)\n```",
			},
			CodeBlocks: []render.CodeBlock{{Language: "python", Code: "print(1)"}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("html")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestGenerate_Markdown(t *testing.T) {
	exchanges := sampleExchanges()
	summary := aggregator.NewAggregator(aggregator.DefaultConfig()).Aggregate(exchanges)

	var buf bytes.Buffer
	require.NoError(t, NewGenerator(&buf, FormatMarkdown).Generate(exchanges, summary))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Replay Transcript\n\n## Prompt 1\n\n"))
	assert.Contains(t, out, "**You:** search <b>news</b>")
	assert.Contains(t, out, "- **Category:** web_search")
	assert.Contains(t, out, "**Rejected:** invalid input: expected string, got int64")
	assert.Contains(t, out, "- **Code blocks:** 1")
	assert.Contains(t, out, "| web_search | 1 | 50% | 2s |")
	assert.Contains(t, out, "**Dominant category:** code_execution")
	assert.Contains(t, out, "**Time range:** Jan 2, 2024, 03:04 AM to Jan 2, 2024, 03:04 AM")
}

func TestGenerate_HTML(t *testing.T) {
	exchanges := sampleExchanges()
	summary := aggregator.NewAggregator(aggregator.DefaultConfig()).Aggregate(exchanges)

	var buf bytes.Buffer
	require.NoError(t, NewGenerator(&buf, FormatHTML).Generate(exchanges, summary))
	out := buf.String()

	// User text is escaped, never rendered.
	assert.Contains(t, out, "<strong>You:</strong> search &lt;b&gt;news&lt;/b&gt;")
	assert.Contains(t, out, "<strong>Tool Used:</strong> web_search<br>URL: <a href=\"https://example.com\"")
	assert.Contains(t, out, `<pre><code class="language-python">print(1)</code></pre>`)
	assert.Contains(t, out, `data-line="2"`)
	assert.Contains(t, out, "<strong>Prompts:</strong> 3")
	assert.Contains(t, out, "<code>web_search</code>: 1")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestGenerate_WriteError(t *testing.T) {
	summary := aggregator.NewAggregator(aggregator.DefaultConfig()).Aggregate(nil)
	err := NewGenerator(failingWriter{}, FormatMarkdown).Generate(nil, summary)
	assert.ErrorContains(t, err, "disk full")
}
