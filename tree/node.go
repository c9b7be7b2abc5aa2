// Package tree describes rendered output as immutable value tree. Builders
// produce it, materializers turn it into live nodes of a particular surface.
package tree

import (
	"slices"
	"strings"
)

// Kind discriminates tree nodes.
type Kind int

// Zero Node is an empty fragment, so unset optional children vanish.
const (
	FragmentNode Kind = iota
	ElementNode
	TextNode
	RawHTMLNode
)

func (k Kind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case FragmentNode:
		return "fragment"
	case RawHTMLNode:
		return "raw"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute. Order of attributes is preserved.
type Attr struct {
	Key   string
	Value string
}

// Node is a value, copies share children slices which must not be modified
// after construction.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    []Attr
	Children []Node
	// text for TextNode, markup for RawHTMLNode
	Data string
}

// El creates element node. Attributes with empty key are skipped which makes
// conditional attributes easy to express.
func El(tag string, attrs []Attr, children ...Node) Node {
	n := Node{Kind: ElementNode, Tag: tag}
	for _, a := range attrs {
		if a.Key != "" {
			n.Attrs = append(n.Attrs, a)
		}
	}
	n.Children = flatten(children)
	return n
}

func Text(s string) Node {
	return Node{Kind: TextNode, Data: s}
}

func Raw(markup string) Node {
	return Node{Kind: RawHTMLNode, Data: markup}
}

// Fragment groups nodes without wrapper, it is spliced into parent.
func Fragment(children ...Node) Node {
	return Node{Kind: FragmentNode, Children: flatten(children)}
}

// A is a shortcut for single attribute.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// If returns attribute when cond holds, otherwise an empty one which El drops.
func If(cond bool, key, value string) Attr {
	if !cond {
		return Attr{}
	}
	return Attr{Key: key, Value: value}
}

// Class joins non empty class names into class attribute.
func Class(names ...string) Attr {
	names = slices.DeleteFunc(slices.Clone(names), func(s string) bool { return s == "" })
	if len(names) == 0 {
		return Attr{}
	}
	return Attr{Key: "class", Value: strings.Join(names, " ")}
}

func Attrs(attrs ...Attr) []Attr {
	return attrs
}

// nested empty fragments are dropped, non empty ones kept as is
func flatten(children []Node) []Node {
	var out []Node
	for _, c := range children {
		if c.Kind == FragmentNode && len(c.Children) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// IsEmpty reports whether node produces nothing.
func (n Node) IsEmpty() bool {
	return n.Kind == FragmentNode && len(n.Children) == 0
}

func (n Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (n Node) HasClass(name string) bool {
	v, _ := n.Attr("class")
	return slices.Contains(strings.Fields(v), name)
}

// Elements returns element children with fragments spliced in.
func (n Node) Elements() []Node {
	var out []Node
	for _, c := range n.Children {
		switch c.Kind {
		case ElementNode:
			out = append(out, c)
		case FragmentNode:
			out = append(out, c.Elements()...)
		}
	}
	return out
}

// Walk visits nodes depth first, stops descending when fn returns false.
func (n Node) Walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns all element nodes (including n) matching predicate in
// document order.
func (n Node) FindAll(match func(Node) bool) []Node {
	var out []Node
	n.Walk(func(c Node) bool {
		if c.Kind == ElementNode && match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (n Node) Find(match func(Node) bool) (Node, bool) {
	found := n.FindAll(match)
	if len(found) == 0 {
		return Node{}, false
	}
	return found[0], true
}

// ByTag and ByClass are predicates for Find and FindAll.
func ByTag(tag string) func(Node) bool {
	return func(n Node) bool { return n.Tag == tag }
}

func ByClass(name string) func(Node) bool {
	return func(n Node) bool { return n.HasClass(name) }
}

// TextContent concatenates text of all descendants, raw markup included
// verbatim.
func (n Node) TextContent() string {
	var sb strings.Builder
	n.Walk(func(c Node) bool {
		if c.Kind == TextNode || c.Kind == RawHTMLNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}
