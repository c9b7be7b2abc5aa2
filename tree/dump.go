package tree

import (
	"easycv/utils/debug"
)

// Dump returns indented human readable representation of the tree.
func (n Node) Dump() string {
	tw := debug.NewTreeWriter()
	n.dump(tw, 0)
	return tw.String()
}

func (n Node) dump(tw *debug.TreeWriter, depth int) {
	switch n.Kind {
	case ElementNode:
		tw.Element(depth, n.Tag, attrPairs(n.Attrs))
	case TextNode:
		tw.TextBlock(depth, "text", n.Data)
	case RawHTMLNode:
		tw.TextBlock(depth, "raw", n.Data)
	case FragmentNode:
		tw.Line(depth, "#fragment")
	}
	for _, c := range n.Children {
		c.dump(tw, depth+1)
	}
}

func attrPairs(attrs []Attr) [][2]string {
	out := make([][2]string, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, [2]string{a.Key, a.Value})
	}
	return out
}
