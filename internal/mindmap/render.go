// Package mindmap draws a concept hierarchy as a box-drawing connector
// tree, the terminal counterpart of the graph diagram in the web UI this
// tool grew out of.
package mindmap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/priyamverma/studyscout/internal/llm"
)

var (
	rootStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	connectorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	// Branch colors cycle by depth so siblings at one level read as a band.
	depthColors = []lipgloss.Color{"81", "110", "147", "229", "175"}
)

const (
	branchTee  = "├── "
	branchEnd  = "└── "
	branchPipe = "│   "
	branchGap  = "    "
)

// Render draws the tree with the root on its own line and children
// connected by box-drawing branches. Node names wrap to the given width.
func Render(root llm.MindMapNode, width int) string {
	if width < 24 {
		width = 24
	}
	var b strings.Builder
	b.WriteString(rootStyle.Render(wordwrap.String(root.Name, width)))
	b.WriteRune('\n')
	renderChildren(&b, root.Children, "", 0, width)
	return strings.TrimRight(b.String(), "\n")
}

func renderChildren(b *strings.Builder, children []llm.MindMapNode, prefix string, depth int, width int) {
	style := lipgloss.NewStyle().Foreground(depthColors[depth%len(depthColors)])
	for i, child := range children {
		connector, continuation := branchTee, branchPipe
		if i == len(children)-1 {
			connector, continuation = branchEnd, branchGap
		}
		name := child.Name
		// Box-drawing runes are multi-byte but single-column; measure in
		// columns so the wrap width matches what is drawn.
		if avail := width - lipgloss.Width(prefix) - lipgloss.Width(connector); avail > 12 {
			name = wordwrap.String(name, avail)
		}
		lines := strings.Split(name, "\n")
		b.WriteString(connectorStyle.Render(prefix + connector))
		b.WriteString(style.Render(lines[0]))
		b.WriteRune('\n')
		for _, extra := range lines[1:] {
			b.WriteString(connectorStyle.Render(prefix + continuation))
			b.WriteString(style.Render(extra))
			b.WriteRune('\n')
		}
		renderChildren(b, child.Children, prefix+continuation, depth+1, width)
	}
}

// CountNodes reports the total number of nodes in the tree, root included.
func CountNodes(root llm.MindMapNode) int {
	count := 1
	for _, child := range root.Children {
		count += CountNodes(child)
	}
	return count
}

// Depth reports the deepest level of the tree; a lone root has depth 1.
func Depth(root llm.MindMapNode) int {
	deepest := 0
	for _, child := range root.Children {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
