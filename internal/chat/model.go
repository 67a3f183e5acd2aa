// Package chat is an interactive terminal front end for the simulator: the
// user types a message, the simulated agent answers after its delay, and
// answers are rendered as markdown with glamour.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/strrl/agentsim/internal/render"
	"github.com/strrl/agentsim/internal/simulator"
)

// ExamplePrompts mirror the demo's example buttons, one per category.
var ExamplePrompts = []string{
	"Write a Python function to calculate fibonacci numbers",
	"Create a new file with my meeting notes",
	"Search the web for the latest Go release",
	"Help me plan a project to build a blog",
	"Analyze this sales data and make a chart",
	"What can you do?",
}

const maxInputHeight = 6

type Options struct {
	WordWrap int
	// Style is a glamour style name; "auto" detects the terminal background.
	Style string
}

type message struct {
	role     string // "user" or "agent"
	content  string
	category simulator.Category
	time     time.Time
}

type (
	responseMsg struct{ resp *simulator.Response }
	errorMsg    struct{ err error }
)

type Model struct {
	sim      *simulator.Simulator
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   styles

	history    []message
	processing bool
	err        error
	width      int
	height     int
	ready      bool
}

type styles struct {
	header lipgloss.Style
	user   lipgloss.Style
	agent  lipgloss.Style
	badge  lipgloss.Style
	muted  lipgloss.Style
	error  lipgloss.Style
	input  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1),
		user:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")).MarginTop(1),
		agent:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginTop(1),
		badge:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A49FA5")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		input:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7D56F4")).Padding(0, 1),
	}
}

func New(sim *simulator.Simulator, opts Options) Model {
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}

	ta := textarea.New()
	ta.Placeholder = "Ask the agent anything... (Enter to send, Alt+Enter for a new line)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(opts.WordWrap, 20)

	return Model{
		sim:      sim,
		textarea: ta,
		viewport: vp,
		spinner:  sp,
		renderer: newRenderer(opts),
		styles:   defaultStyles(),
	}
}

func newRenderer(opts Options) *glamour.TermRenderer {
	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" && opts.Style != "auto" {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(opts.WordWrap))
	if err != nil {
		return nil
	}
	return renderer
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textarea.SetWidth(msg.Width - 4)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-m.chromeHeight(), 3)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if msg.Alt {
				break
			}
			if m.processing {
				return m, nil
			}
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case responseMsg:
		m.processing = false
		m.history = append(m.history, message{
			role:     "agent",
			content:  msg.resp.Text,
			category: msg.resp.Category,
			time:     msg.resp.CreatedAt,
		})
		m.refresh()
		return m, nil

	case errorMsg:
		m.processing = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.processing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.fitInput()
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}

	m.textarea.Reset()
	m.fitInput()

	if strings.HasPrefix(input, "/") {
		return m.command(input)
	}

	m.err = nil
	m.processing = true
	m.history = append(m.history, message{role: "user", content: input, time: time.Now()})
	m.refresh()

	return m, tea.Batch(m.spinner.Tick, m.respond(input))
}

func (m Model) command(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/clear":
		m.history = nil
		m.err = nil
	case "/examples":
		var sb strings.Builder
		sb.WriteString("**Example prompts:**\n\n")
		for i, p := range ExamplePrompts {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
		}
		sb.WriteString("\nType `/example N` to use one.")
		m.history = append(m.history, message{role: "system", content: sb.String(), time: time.Now()})
	case "/example":
		var n int
		if len(fields) < 2 {
			m.err = fmt.Errorf("usage: /example N")
			return m, nil
		}
		if _, err := fmt.Sscanf(fields[1], "%d", &n); err != nil || n < 1 || n > len(ExamplePrompts) {
			m.err = fmt.Errorf("example must be between 1 and %d", len(ExamplePrompts))
			return m, nil
		}
		m.textarea.SetValue(ExamplePrompts[n-1])
		m.fitInput()
	case "/help":
		m.history = append(m.history, message{
			role:    "system",
			content: "**Commands:** `/examples`, `/example N`, `/clear`, `/help`. Press Ctrl+C to exit.",
			time:    time.Now(),
		})
	default:
		m.err = fmt.Errorf("unknown command: %s", fields[0])
		return m, nil
	}

	m.refresh()
	return m, nil
}

func (m Model) respond(input string) tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		resp, err := sim.Respond(context.Background(), input)
		if err != nil {
			return errorMsg{err: err}
		}
		return responseMsg{resp: resp}
	}
}

// fitInput grows the textarea with its content up to maxInputHeight lines.
func (m *Model) fitInput() {
	lines := m.textarea.LineCount()
	m.textarea.SetHeight(min(max(lines, 1), maxInputHeight))
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) chromeHeight() int {
	// header, input box with border, footer
	return 2 + maxInputHeight + 2 + 2
}

func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.history {
		switch msg.role {
		case "user":
			sb.WriteString(m.styles.user.Render("You") + " " + m.stamp(msg) + "\n")
			sb.WriteString(msg.content)
			sb.WriteString("\n\n")
		case "agent":
			sb.WriteString(m.styles.agent.Render("Agent") + " " + m.styles.badge.Render(fmt.Sprintf("[%s]", msg.category.Tool())) + " " + m.stamp(msg) + "\n")
			sb.WriteString(m.renderMarkdown(msg.content))
			sb.WriteString("\n")
		default:
			sb.WriteString(m.renderMarkdown(msg.content))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (m Model) stamp(msg message) string {
	return m.styles.muted.Render(render.FormatTimestamp(msg.time))
}

func (m Model) renderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	status := m.styles.badge.Render("● Ready")
	if m.processing {
		status = m.spinner.View() + " Agent is working..."
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, m.styles.header.Render("Agent Simulator"), "  ", status)

	body := m.viewport.View()
	if m.err != nil {
		body += "\n" + m.styles.error.Render("Error: "+m.err.Error())
	}

	footer := m.styles.muted.Render("Enter: send • Alt+Enter: new line • PgUp/PgDn: scroll • /examples • Ctrl+C: exit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.styles.input.Render(m.textarea.View()),
		footer,
	)
}

// Run starts the chat in the terminal and blocks until the user quits.
func Run(sim *simulator.Simulator, opts Options) error {
	p := tea.NewProgram(New(sim, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
