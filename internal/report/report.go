// Package report renders the human-facing console blocks: the resolved
// output tree at startup, the banner before script execution, and the
// end-of-run summary.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/timvw/plotkeep/internal/capture"
	"github.com/timvw/plotkeep/internal/layout"
)

// Theme defines the colors used for console output.
// Use DarkTheme() or LightTheme() to get a pre-built theme.
type Theme struct {
	Primary   lipgloss.Color // titles, banner
	Success   lipgloss.Color // successful captures
	Error     lipgloss.Color // failed captures, script errors
	Text      lipgloss.Color // primary text
	TextMuted lipgloss.Color // paths, hints
	Border    lipgloss.Color // separators
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Success:   lipgloss.Color("#7fd88f"),
		Error:     lipgloss.Color("#e06c75"),
		Text:      lipgloss.Color("#eeeeee"),
		TextMuted: lipgloss.Color("#808080"),
		Border:    lipgloss.Color("#484848"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Success:   lipgloss.Color("#116329"),
		Error:     lipgloss.Color("#cf222e"),
		Text:      lipgloss.Color("#1f2328"),
		TextMuted: lipgloss.Color("#656d76"),
		Border:    lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// Reporter renders console blocks with a theme.
type Reporter struct {
	title lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	text  lipgloss.Style
	dim   lipgloss.Style
	rule  lipgloss.Style
}

// New builds a Reporter from a theme.
func New(t Theme) *Reporter {
	return &Reporter{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		ok:    lipgloss.NewStyle().Foreground(t.Success),
		fail:  lipgloss.NewStyle().Foreground(t.Error),
		text:  lipgloss.NewStyle().Foreground(t.Text),
		dim:   lipgloss.NewStyle().Foreground(t.TextMuted),
		rule:  lipgloss.NewStyle().Foreground(t.Border),
	}
}

const ruleWidth = 80

// Startup renders the resolved output tree block printed before anything runs.
func (r *Reporter) Startup(l layout.Layout) string {
	var b strings.Builder
	b.WriteString(r.title.Render("Output structure:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", r.text.Render("Script:"), r.dim.Render(l.Script)))
	b.WriteString(fmt.Sprintf("  %s %s\n", r.text.Render("Figures:"), r.dim.Render(l.Plots)))
	b.WriteString(fmt.Sprintf("  %s %s\n", r.text.Render("Outputs:"), r.dim.Render(l.Root)))
	return b.String()
}

// Banner renders the separator line printed just before the script runs.
func (r *Reporter) Banner(script string) string {
	var b strings.Builder
	b.WriteString(r.text.Render(fmt.Sprintf("Running %s with figure auto-save", script)))
	b.WriteString("\n")
	b.WriteString(r.rule.Render(strings.Repeat("-", ruleWidth)))
	return b.String()
}

// ScriptError renders the "run completed with error" line.
func (r *Reporter) ScriptError(err error) string {
	return r.fail.Render(fmt.Sprintf("Error executing script: %v", err))
}

// Summary renders the end-of-run block: capture counts and output locations.
func (r *Reporter) Summary(l layout.Layout, j *capture.Journal) string {
	var b strings.Builder
	b.WriteString(r.rule.Render(strings.Repeat("-", ruleWidth)))
	b.WriteString("\n")
	b.WriteString(r.title.Render("Output summary:"))
	b.WriteString("\n")

	saved := j.Succeeded()
	failed := j.Failed()
	line := fmt.Sprintf("  Figures: %s (%d saved", r.dim.Render(l.Plots), saved)
	if failed > 0 {
		line += r.fail.Render(fmt.Sprintf(", %d failed", failed))
	}
	line += ")"
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Outputs: %s\n", r.dim.Render(l.Root)))
	return b.String()
}
