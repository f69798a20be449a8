package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	sectionStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	enumeratorTint = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
)

// Text renders the forest as a terminal tree rooted at title.
func Text(title string, nodes []Node) string {
	root := tree.Root(titleStyle.Render(title)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumeratorTint)
	for _, n := range nodes {
		root.Child(textNode(n))
	}
	return root.String()
}

func textNode(n Node) any {
	if n.Kind == KindLabel {
		return labelStyle.Render(n.Text)
	}

	t := tree.Root(sectionStyle.Render(n.Text)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumeratorTint)
	for _, c := range n.Children {
		t.Child(textNode(c))
	}
	return t
}
