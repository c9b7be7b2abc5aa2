package dom

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// appendHTML parses markup as body content of a div and appends resulting
// nodes to parent. Markup is trusted, parsing only normalizes it into well
// formed XML.
func appendHTML(parent *etree.Element, markup string) error {
	if strings.TrimSpace(markup) == "" {
		if markup != "" {
			parent.CreateText(markup)
		}
		return nil
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		convertHTML(parent, n)
	}
	return nil
}

func convertHTML(parent *etree.Element, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		parent.CreateText(n.Data)
	case html.CommentNode:
		parent.CreateComment(n.Data)
	case html.ElementNode:
		el := parent.CreateElement(n.Data)
		for _, a := range n.Attr {
			if !validAttrName(a.Key) {
				continue
			}
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + key
			}
			el.CreateAttr(key, a.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convertHTML(el, c)
		}
	}
}

// html parser accepts attribute names XML would reject
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
