package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Tabs         []string
	ActiveTab    int
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
	Width        int
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	importantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	importedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	selectedStyle  = lipgloss.NewStyle().Reverse(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nowStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	todayStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
)

const (
	defaultPaneWidth = 58
	minPaneWidth     = 36
)

func RenderApp(data AppData) string {
	leftWidth, rightWidth := paneWidths(data.Width)
	left := panelStyle.Width(leftWidth).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := panelStyle.Width(rightWidth).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{headerStyle.Render(data.Header)}
	if len(data.Tabs) > 0 {
		lines = append(lines, renderTabs(data.Tabs, data.ActiveTab))
	}
	lines = append(lines, row, status)
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func renderTabs(tabs []string, active int) string {
	out := make([]string, 0, len(tabs))
	for i, t := range tabs {
		if i == active {
			out = append(out, activeTabStyle.Render(t))
			continue
		}
		out = append(out, tabStyle.Render(t))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// paneWidths splits the terminal between the main and side panes. Zero
// width means the size is not known yet.
func paneWidths(total int) (int, int) {
	if total <= 0 {
		return defaultPaneWidth, defaultPaneWidth
	}
	left := total * 3 / 5
	right := total - left - 6
	return max(left, minPaneWidth), max(right, minPaneWidth)
}

// RenderMarkdown renders an event note. Notes are plain text most of the
// time, so glamour failures fall back to the raw input.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
