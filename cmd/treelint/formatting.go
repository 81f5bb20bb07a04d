package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/treelint/treelint/pkg/scan"
)

var (
	issueCodeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	issuePathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// stdoutIsTerminal reports whether stdout is an interactive terminal.
func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// formatIssue renders one check issue, styled when writing to a terminal.
func formatIssue(issue scan.Issue) string {
	if !stdoutIsTerminal() {
		return fmt.Sprintf("[%s] %s: %s", issue.Code, issue.Path, issue.Message)
	}
	return fmt.Sprintf("%s %s: %s",
		issueCodeStyle.Render("["+string(issue.Code)+"]"),
		issuePathStyle.Render(issue.Path),
		issue.Message)
}

// renderMarkdown renders Markdown for terminal display; non-terminal output
// gets the raw document.
func renderMarkdown(markdown string) string {
	if !stdoutIsTerminal() {
		return markdown
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
