package output

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "
)

type treeNode struct {
	name     string
	isDir    bool
	children []*treeNode
}

// RenderFileTree renders the files written under root as a tree. Paths
// outside root are shown relative to it.
func RenderFileTree(root string, files []string) string {
	if len(files) == 0 {
		return ""
	}

	top := &treeNode{name: root, isDir: true}
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			rel = f
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		cur := top
		for i, part := range parts {
			var child *treeNode
			for _, c := range cur.children {
				if c.name == part {
					child = c
					break
				}
			}
			if child == nil {
				child = &treeNode{name: part, isDir: i < len(parts)-1}
				cur.children = append(cur.children, child)
			}
			cur = child
		}
	}
	sortTree(top)

	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(strings.TrimSuffix(root, "/") + "/"))
	sb.WriteString("\n")
	renderChildren(&sb, top, "")
	return sb.String()
}

// sortTree orders directories first, then by name.
func sortTree(n *treeNode) {
	sort.Slice(n.children, func(i, j int) bool {
		a, b := n.children[i], n.children[j]
		if a.isDir != b.isDir {
			return a.isDir
		}
		return a.name < b.name
	})
	for _, c := range n.children {
		sortTree(c)
	}
}

func renderChildren(sb *strings.Builder, n *treeNode, prefix string) {
	for i, c := range n.children {
		last := i == len(n.children)-1
		connector, next := treeEdge, treeVert
		if last {
			connector, next = treeLast, treeSpace
		}

		name := c.name
		if c.isDir {
			name += "/"
		} else {
			name = StyleNoun.Render(name)
		}
		sb.WriteString(StyleDim.Render(prefix+connector) + name + "\n")
		renderChildren(sb, c, prefix+next)
	}
}
