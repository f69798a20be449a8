package render

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Filter prunes nodes to those matching query. A section whose title
// matches is kept with its whole subtree; otherwise it is kept only when
// some descendant matches. An empty query returns nodes unchanged.
func Filter(nodes []Node, query string) []Node {
	query = strings.TrimSpace(query)
	if query == "" {
		return nodes
	}

	var kept []Node
	for _, n := range nodes {
		if fuzzy.MatchFold(query, n.Text) {
			kept = append(kept, n)
			continue
		}
		if n.Kind != KindSection {
			continue
		}
		if children := Filter(n.Children, query); len(children) > 0 {
			kept = append(kept, Section(n.Text, children))
		}
	}
	return kept
}

// Count returns the number of nodes in the forest.
func Count(nodes []Node) int {
	total := len(nodes)
	for _, n := range nodes {
		total += Count(n.Children)
	}
	return total
}
