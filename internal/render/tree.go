// Package render maps decoded Granny elements onto a toolkit-neutral tree
// of collapsible sections and labels.
package render

import (
	"fmt"
	"strconv"

	"granny-viewer/internal/granny"
)

// UnsupportedText is shown in place of variant references.
const UnsupportedText = "Currently not supported!"

type Kind int

const (
	KindSection Kind = iota
	KindLabel
)

// Node is either a collapsible section with children or a plain label.
type Node struct {
	Kind     Kind
	Text     string
	Children []Node
}

func Section(text string, children []Node) Node {
	return Node{Kind: KindSection, Text: text, Children: children}
}

func Label(text string) Node {
	return Node{Kind: KindLabel, Text: text}
}

// Elements renders each element as one section, preserving order.
func Elements(elements []granny.Element) []Node {
	nodes := make([]Node, 0, len(elements))
	for _, e := range elements {
		nodes = append(nodes, Element(e))
	}
	return nodes
}

// Element renders a named element as a section holding its payload.
func Element(e granny.Element) Node {
	return Section(e.Name, Content(e.Value))
}

// Content renders a payload as the body of its parent section.
func Content(v granny.Value) []Node {
	switch v := v.(type) {
	case granny.Reference:
		return Elements(v.Elements)
	case granny.ArrayOfReferences:
		nodes := make([]Node, 0, len(v.Groups))
		for i, group := range v.Groups {
			nodes = append(nodes, Section(fmt.Sprintf("[%d]", i), Elements(group)))
		}
		return nodes
	case granny.VariantReference:
		return []Node{Label(UnsupportedText)}
	case granny.String:
		return []Node{Label(string(v))}
	case granny.Float32:
		return []Node{Label(strconv.FormatFloat(float64(v), 'f', -1, 32))}
	case granny.Int32:
		return []Node{Label(strconv.FormatInt(int64(v), 10))}
	case granny.Transform:
		return nil
	case granny.Array:
		var nodes []Node
		for _, member := range v {
			nodes = append(nodes, Content(member)...)
		}
		return nodes
	}
	return nil
}
