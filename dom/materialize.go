package dom

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"easycv/tree"
)

// ErrNotElement is returned when materialized description does not have
// single element root.
var ErrNotElement = errors.New("tree root is not an element")

// Materialize turns tree description into detached etree element.
func Materialize(n tree.Node) (*etree.Element, error) {
	if n.Kind != tree.ElementNode {
		return nil, fmt.Errorf("%w: %s", ErrNotElement, n.Kind)
	}
	el := etree.NewElement(n.Tag)
	for _, a := range n.Attrs {
		el.CreateAttr(a.Key, a.Value)
	}
	for _, c := range n.Children {
		if err := appendNode(el, c); err != nil {
			return nil, err
		}
	}
	return el, nil
}

// AppendTo materializes n as last children of parent. Fragments are spliced.
func AppendTo(parent *etree.Element, n tree.Node) error {
	return appendNode(parent, n)
}

func appendNode(parent *etree.Element, n tree.Node) error {
	switch n.Kind {
	case tree.ElementNode:
		el, err := Materialize(n)
		if err != nil {
			return err
		}
		parent.AddChild(el)
	case tree.TextNode:
		if n.Data != "" {
			parent.CreateText(n.Data)
		}
	case tree.RawHTMLNode:
		if err := appendHTML(parent, n.Data); err != nil {
			return fmt.Errorf("unable to materialize markup: %w", err)
		}
	case tree.FragmentNode:
		for _, c := range n.Children {
			if err := appendNode(parent, c); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown node kind %d", n.Kind)
	}
	return nil
}

// Clear detaches all children of el.
func Clear(el *etree.Element) {
	for len(el.Child) > 0 {
		el.RemoveChildAt(len(el.Child) - 1)
	}
}
