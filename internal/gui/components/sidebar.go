package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"granny-viewer/internal/render"
)

const (
	EmptyText         = "No file open"
	FilterPlaceholder = "Filter elements..."
)

// Sidebar shows the open file's name and its element tree, or the empty
// label when nothing is loaded.
type Sidebar struct {
	container *fyne.Container

	notice     *Notice
	heading    *widget.Label
	summary    *widget.Label
	filter     *widget.Entry
	tree       *NodeTree
	emptyLabel *widget.Label
	fileHeader *fyne.Container

	nodes []render.Node
}

func NewSidebar(notice *Notice) *Sidebar {
	heading := widget.NewLabel("")
	heading.SizeName = theme.SizeNameHeadingText
	heading.TextStyle = fyne.TextStyle{Bold: true}
	heading.Truncation = fyne.TextTruncateEllipsis

	summary := widget.NewLabel("")
	summary.Importance = widget.LowImportance

	filter := widget.NewEntry()
	filter.SetPlaceHolder(FilterPlaceholder)

	tree := NewNodeTree()
	emptyLabel := widget.NewLabel(EmptyText)

	s := &Sidebar{
		notice:     notice,
		heading:    heading,
		summary:    summary,
		filter:     filter,
		tree:       tree,
		emptyLabel: emptyLabel,
	}
	filter.OnChanged = s.applyFilter

	s.fileHeader = container.NewVBox(heading, summary, filter)
	top := container.NewVBox(notice.GetContainer(), s.fileHeader)
	body := container.NewStack(tree.Widget(), container.NewVBox(emptyLabel))

	s.container = container.NewBorder(top, nil, nil, nil, body)
	s.ShowEmpty()

	return s
}

func (s *Sidebar) GetContainer() *fyne.Container {
	return s.container
}

// ShowFile replaces the displayed tree. The filter is cleared.
func (s *Sidebar) ShowFile(name string, size int, nodes []render.Node) {
	s.nodes = nodes

	s.heading.SetText(name)
	s.summary.SetText(fmt.Sprintf("%s, %d root elements", humanize.Bytes(uint64(size)), len(nodes)))
	s.filter.SetText("")
	s.rebuild(nodes)

	s.emptyLabel.Hide()
	s.fileHeader.Show()
	s.tree.Widget().Show()
}

func (s *Sidebar) ShowEmpty() {
	s.nodes = nil
	s.heading.SetText("")
	s.summary.SetText("")
	s.rebuild(nil)

	s.fileHeader.Hide()
	s.tree.Widget().Hide()
	s.emptyLabel.Show()
}

func (s *Sidebar) Heading() string {
	if !s.fileHeader.Visible() {
		return ""
	}
	return s.heading.Text
}

func (s *Sidebar) Empty() bool {
	return s.emptyLabel.Visible()
}

// Tree returns the element tree shown for the open file.
func (s *Sidebar) Tree() *NodeTree {
	return s.tree
}

// SetFilter sets the filter entry and rebuilds the tree for query.
func (s *Sidebar) SetFilter(query string) {
	s.filter.SetText(query)
	s.applyFilter(query)
}

func (s *Sidebar) applyFilter(query string) {
	s.rebuild(render.Filter(s.nodes, query))
}

func (s *Sidebar) rebuild(nodes []render.Node) {
	s.tree.SetNodes(nodes)
}
