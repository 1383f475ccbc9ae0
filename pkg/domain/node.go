package domain

// PlacedBranch is a BranchSpec resolved into world space.
// Embed is how far the branch body reaches back along -Axis into its parent,
// so the junction is fully fused rather than touching at a single rim.
type PlacedBranch struct {
	Spec  BranchSpec `json:"spec"`
	Frame Frame      `json:"frame"`
	Embed float64    `json:"embed"`
}

// Tip returns the centre of the free end of the branch.
func (p PlacedBranch) Tip() Frame {
	f := p.Frame
	f.Origin = f.At(p.Spec.Length)
	return f
}

// BranchNode is one node of the assembled tree.
// Lumen is nil when the branch fell back to a solid body.
type BranchNode struct {
	Branch        PlacedBranch
	Body          BodyRef
	Outer         Solid
	Lumen         Solid
	SolidFallback bool
	Children      []*BranchNode
}

// Walk visits n and its descendants depth first, parents before children.
func (n *BranchNode) Walk(fn func(*BranchNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *BranchNode) Count() int {
	total := 0
	n.Walk(func(*BranchNode) { total++ })
	return total
}

// AdapterGeometry is the optional connector built next to the tree, not inside it.
type AdapterGeometry struct {
	Spec  AdapterSpec
	Frame Frame
	Body  BodyRef
	Outer Solid
	Lumen Solid
}

// Assembly is the output of tree assembly handed unmodified to compositing.
type Assembly struct {
	Root    *BranchNode
	Adapter *AdapterGeometry
}
