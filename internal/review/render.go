package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// theme holds the color scheme for comparison rendering.
type theme struct {
	Header lipgloss.Color
	Before lipgloss.Color
	After  lipgloss.Color
	Hint   lipgloss.Color
	Prompt lipgloss.Color
}

var defaultTheme = theme{
	Header: lipgloss.Color("#5FAFD7"), // light blue
	Before: lipgloss.Color("#6C6C6C"), // dim gray
	After:  lipgloss.Color("#00D787"), // green
	Hint:   lipgloss.Color("#6C6C6C"),
	Prompt: lipgloss.Color("#FFD700"), // gold
}

func (t theme) headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true)
}

func (t theme) beforeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Before)
}

func (t theme) afterStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.After)
}

func (t theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t theme) promptStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Prompt).Bold(true)
}

const descriptionPreview = 400

// renderComparison builds the before/after display for one video.
func (t *Terminal) renderComparison(c Comparison) string {
	var b strings.Builder

	header := fmt.Sprintf("\n[%d/%d] %s", c.Position, c.Total, c.VideoID)
	b.WriteString(t.theme.headerStyle().Render(header))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	b.WriteString(t.theme.beforeStyle().Render("current title:  "+c.Title) + "\n")
	b.WriteString(t.theme.afterStyle().Render("new title:      "+c.Draft.Title) + "\n\n")

	b.WriteString(t.theme.beforeStyle().Render("current tags:   "+joinOrNone(c.Tags)) + "\n")
	b.WriteString(t.theme.afterStyle().Render("new tags:       "+joinOrNone(c.Draft.Tags)) + "\n")
	if len(c.Draft.Hashtags) > 0 {
		b.WriteString(t.theme.afterStyle().Render("hashtags:       "+strings.Join(c.Draft.Hashtags, " ")) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(t.theme.beforeStyle().Render("current description:") + "\n")
	b.WriteString(preview(c.Description) + "\n\n")
	b.WriteString(t.theme.afterStyle().Render("new description:") + "\n")
	b.WriteString(preview(c.Draft.Description) + "\n")

	return b.String()
}

func joinOrNone(tags []string) string {
	if len(tags) == 0 {
		return "(none)"
	}
	return strings.Join(tags, ", ")
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionPreview {
		return s
	}
	return string(runes[:descriptionPreview]) + "…"
}
