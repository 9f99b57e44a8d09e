package content

import "sort"

// NavNode is one entry of the derived navigation tree.
type NavNode struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Children []NavNode `json:"children,omitempty"`
}

// BuildNavigation derives the ordered navigation tree from galleries. It
// is a pure function: no state, no I/O.
//
// Private galleries are excluded. Children attach to the gallery named by
// their ParentSlug; entries naming an unknown or private parent surface
// at the top level rather than disappearing. Siblings sort by explicit
// order ascending; entries without one come after all ordered entries, in
// their original sequence.
func BuildNavigation(galleries []Gallery) []NavNode {
	visible := make([]Gallery, 0, len(galleries))
	known := map[string]bool{}
	for _, g := range galleries {
		if g.Private {
			continue
		}
		visible = append(visible, g)
		known[g.Slug] = true
	}

	children := map[string][]Gallery{}
	var roots []Gallery
	for _, g := range visible {
		if g.ParentSlug != "" && known[g.ParentSlug] && g.ParentSlug != g.Slug {
			children[g.ParentSlug] = append(children[g.ParentSlug], g)
			continue
		}
		roots = append(roots, g)
	}

	var build func(gs []Gallery) []NavNode
	build = func(gs []Gallery) []NavNode {
		sortNavSiblings(gs)
		nodes := make([]NavNode, 0, len(gs))
		for _, g := range gs {
			nodes = append(nodes, NavNode{
				Slug:     g.Slug,
				Title:    g.Title,
				Children: build(children[g.Slug]),
			})
		}
		return nodes
	}
	return build(roots)
}

// sortNavSiblings applies the manual-order rule in place: explicit order
// ascending first, then the unordered entries in their incoming sequence.
func sortNavSiblings(gs []Gallery) {
	sort.SliceStable(gs, func(i, j int) bool {
		a, b := gs[i].Order, gs[j].Order
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a < *b
	})
}
