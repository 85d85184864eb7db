// Package comments builds nested reply trees out of the flat comment rows the
// store hands back.
package comments

import "github.com/inkpost/inkpost/internal/domain"

// Node is one comment in the reply tree. Depth is 0 for roots; callers decide
// at which depth to stop offering a reply affordance.
type Node struct {
	*domain.Comment
	Depth    int     `json:"depth"`
	Children []*Node `json:"children"`
}

// BuildTree turns the complete, unordered comment list of one post into a
// forest plus the total comment count (replies at any depth included).
//
// Input iteration order is preserved both for roots and for each node's
// children; the feed query sorts newest-first and that ordering survives the
// build. A comment whose parent reference does not resolve, including one
// referencing itself, becomes a root instead of being dropped.
func BuildTree(list []*domain.Comment) ([]*Node, int) {
	nodes := make(map[string]*Node, len(list))
	for _, c := range list {
		nodes[c.ID] = &Node{Comment: c, Children: []*Node{}}
	}

	forest := []*Node{}
	for _, c := range list {
		n := nodes[c.ID]
		if c.ParentID != nil && *c.ParentID != c.ID {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		forest = append(forest, n)
	}

	annotateDepth(forest)
	return forest, len(list)
}

// annotateDepth walks the forest from its roots. Each node is attached as a
// child at most once and never under itself, so the walk cannot loop; the
// visited set additionally shields against malformed cycles stored by direct
// store manipulation (such members never appear under a root at all).
func annotateDepth(forest []*Node) {
	seen := make(map[string]bool)
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		n.Depth = depth
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range forest {
		walk(root, 0)
	}
}

// Flatten returns the forest's comments in pre-order. Root order and sibling
// order match the order BuildTree received them in.
func Flatten(forest []*Node) []*domain.Comment {
	var out []*domain.Comment
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n.Comment)
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range forest {
		walk(root)
	}
	return out
}
