package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/strrl/agentsim/internal/aggregator"
	"github.com/strrl/agentsim/internal/pipeline"
	"github.com/strrl/agentsim/internal/render"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatHTML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format: %q (want markdown or html)", s)
}

// Generator writes replay transcripts.
type Generator struct {
	w      io.Writer
	format Format
}

func NewGenerator(w io.Writer, format Format) *Generator {
	return &Generator{
		w:      w,
		format: format,
	}
}

func (g *Generator) Generate(exchanges []pipeline.Exchange, summary *aggregator.Summary) error {
	var content string
	switch g.format {
	case FormatHTML:
		content = htmlTranscript(exchanges, summary)
	default:
		content = markdownTranscript(exchanges, summary)
	}

	if _, err := io.WriteString(g.w, content); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

func markdownTranscript(exchanges []pipeline.Exchange, summary *aggregator.Summary) string {
	var sb strings.Builder
	sb.WriteString("# Replay Transcript\n\n")

	for _, ex := range exchanges {
		sb.WriteString(fmt.Sprintf("## Prompt %d\n\n", ex.Line))
		if ex.Err != nil {
			sb.WriteString(fmt.Sprintf("**Rejected:** %s\n\n", ex.Err))
			continue
		}

		resp := ex.Response
		sb.WriteString(fmt.Sprintf("**You:** %s\n\n", ex.Input))
		sb.WriteString(fmt.Sprintf("- **Category:** %s\n", resp.Category))
		sb.WriteString(fmt.Sprintf("- **Tool:** %s\n", resp.Category.Tool()))
		sb.WriteString(fmt.Sprintf("- **Delay:** %s\n", resp.Delay))
		sb.WriteString(fmt.Sprintf("- **Code blocks:** %d\n\n", len(ex.CodeBlocks)))
		sb.WriteString("**Agent:**\n\n")
		sb.WriteString(resp.Text)
		sb.WriteString("\n\n---\n\n")
	}

	sb.WriteString(markdownSummary(summary))
	return sb.String()
}

func markdownSummary(summary *aggregator.Summary) string {
	var sb strings.Builder
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Prompts:** %d\n", summary.Prompts))
	sb.WriteString(fmt.Sprintf("**Responded:** %d\n", summary.Responded))
	sb.WriteString(fmt.Sprintf("**Rejected:** %d\n", summary.Rejected))
	sb.WriteString(fmt.Sprintf("**Simulated delay:** %s\n", summary.TotalDelay))
	if summary.Dominant != "" {
		sb.WriteString(fmt.Sprintf("**Dominant category:** %s\n", summary.Dominant))
	}
	if !summary.TimeRange.Start.IsZero() {
		sb.WriteString(fmt.Sprintf("**Time range:** %s to %s\n",
			render.FormatTimestamp(summary.TimeRange.Start),
			render.FormatTimestamp(summary.TimeRange.End)))
	}

	if len(summary.Categories) > 0 {
		sb.WriteString("\n| Category | Count | Share | Delay |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, c := range summary.Categories {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.0f%% | %s |\n", c.Category, c.Count, c.Share*100, c.TotalDelay))
		}
	}

	return sb.String()
}

func htmlTranscript(exchanges []pipeline.Exchange, summary *aggregator.Summary) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Replay Transcript</title>\n</head>\n<body>\n")
	sb.WriteString("<h1>Replay Transcript</h1>\n")

	for _, ex := range exchanges {
		sb.WriteString(fmt.Sprintf("<section class=\"exchange\" data-line=\"%d\">\n", ex.Line))
		if ex.Err != nil {
			sb.WriteString(fmt.Sprintf("<div class=\"message error-message\"><strong>Rejected:</strong> %s</div>\n",
				render.EscapeHTML(ex.Err.Error())))
			sb.WriteString("</section>\n")
			continue
		}

		resp := ex.Response
		sb.WriteString(fmt.Sprintf("<div class=\"message user-message\"><strong>You:</strong> %s</div>\n",
			render.EscapeHTML(ex.Input)))
		sb.WriteString(fmt.Sprintf("<div class=\"message agent-message\" data-category=\"%s\"><strong>Agent:</strong> %s</div>\n",
			resp.Category, render.Render(resp.Text)))
		sb.WriteString("</section>\n")
	}

	sb.WriteString("<h2>Summary</h2>\n")
	sb.WriteString(render.Render(markdownSummaryLines(summary)))
	sb.WriteString("\n</body>\n</html>\n")
	return sb.String()
}

// markdownSummaryLines is the summary without the table, which Render has no
// syntax for.
func markdownSummaryLines(summary *aggregator.Summary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Prompts:** %d\n", summary.Prompts))
	sb.WriteString(fmt.Sprintf("**Responded:** %d\n", summary.Responded))
	sb.WriteString(fmt.Sprintf("**Rejected:** %d\n", summary.Rejected))
	sb.WriteString(fmt.Sprintf("**Simulated delay:** %s", summary.TotalDelay.Round(time.Millisecond)))
	for _, c := range summary.Categories {
		sb.WriteString(fmt.Sprintf("\n- `%s`: %d", c.Category, c.Count))
	}
	return sb.String()
}
