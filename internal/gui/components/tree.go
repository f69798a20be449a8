package components

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"granny-viewer/internal/render"
)

// NodeTree shows a render forest in a widget.Tree. Node IDs are index
// paths such as "0/3/1"; the root ID is "". Rows are created only for
// visible nodes and children are listed only when a branch is opened.
type NodeTree struct {
	tree  *widget.Tree
	nodes []render.Node

	// created counts row widgets built by the tree.
	created int
}

func NewNodeTree() *NodeTree {
	t := &NodeTree{}
	t.tree = widget.NewTree(t.Children, t.IsBranch, t.createNode, t.updateNode)
	return t
}

func (t *NodeTree) Widget() *widget.Tree {
	return t.tree
}

// SetNodes replaces the forest and collapses every branch.
func (t *NodeTree) SetNodes(nodes []render.Node) {
	t.nodes = nodes
	t.tree.CloseAllBranches()
	t.tree.ScrollToTop()
	t.tree.Refresh()
}

// Roots returns the IDs of the top-level nodes.
func (t *NodeTree) Roots() []widget.TreeNodeID {
	return t.Children(t.tree.Root)
}

func (t *NodeTree) Children(uid widget.TreeNodeID) []widget.TreeNodeID {
	children := t.nodes
	if uid != "" {
		n, ok := t.Node(uid)
		if !ok {
			return nil
		}
		children = n.Children
	}

	ids := make([]widget.TreeNodeID, len(children))
	for i := range children {
		if uid == "" {
			ids[i] = strconv.Itoa(i)
		} else {
			ids[i] = uid + "/" + strconv.Itoa(i)
		}
	}
	return ids
}

// IsBranch reports whether uid is a section. Sections stay expandable
// even when empty.
func (t *NodeTree) IsBranch(uid widget.TreeNodeID) bool {
	if uid == "" {
		return true
	}
	n, ok := t.Node(uid)
	return ok && n.Kind == render.KindSection
}

// Node resolves an index path.
func (t *NodeTree) Node(uid widget.TreeNodeID) (render.Node, bool) {
	level := t.nodes
	var n render.Node
	for _, part := range strings.Split(uid, "/") {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 || i >= len(level) {
			return render.Node{}, false
		}
		n = level[i]
		level = n.Children
	}
	return n, true
}

func (t *NodeTree) createNode(branch bool) fyne.CanvasObject {
	t.created++
	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis
	return label
}

func (t *NodeTree) updateNode(uid widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
	n, _ := t.Node(uid)
	label := obj.(*widget.Label)
	label.TextStyle = fyne.TextStyle{Bold: branch}
	label.SetText(n.Text)
}
