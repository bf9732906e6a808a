// Package markdown renders the small markdown subset the model is prompted
// to emit: #/##/### headers, **bold** spans, - or * bullet lists, and plain
// paragraphs. Formatting is line and regex based; anything outside the
// subset passes through as paragraph text.
package markdown

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Variant selects the cosmetic rendering style.
type Variant int

const (
	// VariantStandard is the regular study-notes look.
	VariantStandard Variant = iota
	// VariantHandwritten softens the palette and swaps bullet glyphs for a
	// notebook feel. Purely cosmetic.
	VariantHandwritten
)

var boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)

type palette struct {
	h1     lipgloss.Style
	h2     lipgloss.Style
	h3     lipgloss.Style
	bold   lipgloss.Style
	text   lipgloss.Style
	bullet string
}

var standardPalette = palette{
	h1:     lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("205")),
	h2:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
	h3:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("110")),
	bold:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
	text:   lipgloss.NewStyle(),
	bullet: " • ",
}

var handwrittenPalette = palette{
	h1:     lipgloss.NewStyle().Bold(true).Italic(true).Foreground(lipgloss.Color("#ffb347")),
	h2:     lipgloss.NewStyle().Italic(true).Underline(true).Foreground(lipgloss.Color("#f4a261")),
	h3:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#e9c46a")),
	bold:   lipgloss.NewStyle().Bold(true).Italic(true).Foreground(lipgloss.Color("#fff4d0")),
	text:   lipgloss.NewStyle().Italic(true),
	bullet: " ✎ ",
}

// Render formats markdown-subset text for the terminal, wrapping body text
// to the given width.
func Render(text string, width int, variant Variant) string {
	pal := standardPalette
	if variant == VariantHandwritten {
		pal = handwrittenPalette
	}
	if width < 20 {
		width = 20
	}

	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			out = append(out, "")
		case strings.HasPrefix(trimmed, "### "):
			out = append(out, pal.h3.Render(renderBold(strings.TrimPrefix(trimmed, "### "), pal)))
		case strings.HasPrefix(trimmed, "## "):
			out = append(out, pal.h2.Render(renderBold(strings.TrimPrefix(trimmed, "## "), pal)))
		case strings.HasPrefix(trimmed, "# "):
			out = append(out, pal.h1.Render(renderBold(strings.TrimPrefix(trimmed, "# "), pal)))
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			// Display width, not byte length: the bullet glyphs are
			// multi-byte but single-column.
			indent := lipgloss.Width(pal.bullet)
			body := renderBold(trimmed[2:], pal)
			wrapped := wordwrap.String(body, width-indent)
			out = append(out, pal.bullet+indentContinuation(wrapped, indent))
		default:
			out = append(out, pal.text.Render(renderBold(wordwrap.String(trimmed, width), pal)))
		}
	}
	return strings.Join(out, "\n")
}

func renderBold(line string, pal palette) string {
	return boldRe.ReplaceAllStringFunc(line, func(match string) string {
		inner := strings.TrimSuffix(strings.TrimPrefix(match, "**"), "**")
		return pal.bold.Render(inner)
	})
}

func indentContinuation(wrapped string, indent int) string {
	lines := strings.Split(wrapped, "\n")
	if len(lines) == 1 {
		return wrapped
	}
	prefix := strings.Repeat(" ", indent)
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
