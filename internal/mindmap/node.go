package mindmap

// Node is one mind-map tree node. Nodes form a strict tree: ids are unique
// within a map, every node has a single parent and the root has none. The
// backend normalizes the root's id to "root" and fills in ids the model
// left out.
type Node struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Children []*Node `json:"children,omitempty"`
}

// Map is one generated mind map. Replaced wholesale by each generation
// request, never mutated in place.
type Map struct {
	// Title is a short display title derived from the source document.
	Title string `json:"title"`

	// Root is the tree's single root node.
	Root *Node `json:"root"`

	// Provider names the model provider that generated the map.
	Provider string `json:"provider,omitempty"`
}
