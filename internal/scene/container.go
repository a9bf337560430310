package scene

// Container is a named grouping of nodes. Containers nest and a node may be
// linked into several of them.
type Container struct {
	Name string
	// Exclude removes the container and its descendants from the view layer.
	// It is independent of node visibility.
	Exclude bool
	// Linked marks a container from an external library. Linked containers
	// are read-only.
	Linked bool

	parent   *Container
	children []*Container
	nodes    []*Node
}

// Parent returns the parent container, or nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// Children returns the direct child containers in declaration order.
func (c *Container) Children() []*Container {
	return append([]*Container(nil), c.children...)
}

// Nodes returns the nodes linked directly into c.
func (c *Container) Nodes() []*Node {
	return append([]*Node(nil), c.nodes...)
}

// AllNodes returns the nodes of c and every descendant container, without
// duplicates, in declaration order.
func (c *Container) AllNodes() []*Node {
	var out []*Node
	seen := make(map[*Node]bool)
	var walk func(*Container)
	walk = func(cc *Container) {
		for _, n := range cc.nodes {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
		for _, ch := range cc.children {
			walk(ch)
		}
	}
	walk(c)
	return out
}

// Included reports whether c and all its ancestors are included.
func (c *Container) Included() bool {
	for cc := c; cc != nil; cc = cc.parent {
		if cc.Exclude {
			return false
		}
	}
	return true
}

// Ancestors returns the parent chain from the direct parent up to the root.
func (c *Container) Ancestors() []*Container {
	var out []*Container
	for p := c.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

func (c *Container) hasNode(n *Node) bool {
	for _, m := range c.nodes {
		if m == n {
			return true
		}
	}
	return false
}

func (c *Container) removeNode(n *Node) {
	for i, m := range c.nodes {
		if m == n {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return
		}
	}
}
