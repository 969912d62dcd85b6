package mindmap

// InitialDepth is the deepest level whose branches start expanded: the root
// and its immediate children, so three levels are visible right after
// generation and everything deeper stays behind a toggle.
const InitialDepth = 2

// Row is one visible line of the rendered outline.
type Row struct {
	Node        *Node
	Depth       int // root = 1
	HasChildren bool
	Expanded    bool
}

// Outline lays interactive disclosure state over one generated map. The
// tree itself is never mutated; the outline tracks which branches are open
// and flattens the visible part for rendering.
type Outline struct {
	root     *Node
	byID     map[string]*Node
	depths   map[string]int
	expanded map[string]bool
}

// NewOutline walks the map's tree depth first, indexes every node by id,
// assigns depths from the root down and opens each branch at depth
// InitialDepth or shallower.
func NewOutline(m *Map) *Outline {
	o := &Outline{
		byID:     make(map[string]*Node),
		depths:   make(map[string]int),
		expanded: make(map[string]bool),
	}
	if m != nil && m.Root != nil {
		o.root = m.Root
		o.index(m.Root, 1)
	}
	return o
}

func (o *Outline) index(n *Node, depth int) {
	o.byID[n.ID] = n
	o.depths[n.ID] = depth
	if len(n.Children) > 0 && depth <= InitialDepth {
		o.expanded[n.ID] = true
	}
	for _, c := range n.Children {
		o.index(c, depth+1)
	}
}

// Len returns the total number of nodes in the map.
func (o *Outline) Len() int {
	return len(o.byID)
}

// Node returns the node with the given id, or nil for an unknown id.
func (o *Outline) Node(id string) *Node {
	return o.byID[id]
}

// Depth returns a node's depth, root = 1, or 0 for an unknown id.
func (o *Outline) Depth(id string) int {
	return o.depths[id]
}

// Expanded reports whether the branch with the given id is open.
func (o *Outline) Expanded(id string) bool {
	return o.expanded[id]
}

// Toggle opens or closes exactly the given branch. Leaves and unknown ids
// are ignored. Descendants keep their own state, so re-opening a branch
// restores whatever was visible before it closed, and siblings are never
// touched.
func (o *Outline) Toggle(id string) {
	n := o.byID[id]
	if n == nil || len(n.Children) == 0 {
		return
	}
	o.expanded[id] = !o.expanded[id]
}

// Rows flattens the visible part of the tree in depth-first order. A node
// is visible when every ancestor is expanded; a collapsed branch hides its
// whole subtree.
func (o *Outline) Rows() []Row {
	if o.root == nil {
		return nil
	}
	rows := make([]Row, 0, len(o.byID))
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		rows = append(rows, Row{
			Node:        n,
			Depth:       depth,
			HasChildren: len(n.Children) > 0,
			Expanded:    o.expanded[n.ID],
		})
		if !o.expanded[n.ID] {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(o.root, 1)
	return rows
}
