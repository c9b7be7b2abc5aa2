package build

import (
	"easycv/contact"
	"easycv/cv"
	"easycv/tree"
)

// Header renders name, tag line and contact list.
func (b *Builder) Header(h *cv.Header) tree.Node {
	entries := contact.Normalize(h.Contact, b.log)

	var contacts tree.Node
	if len(entries) > 0 {
		items := make([]tree.Node, 0, len(entries))
		for _, e := range entries {
			items = append(items, contactItem(e))
		}
		contacts = tree.El("div", tree.Attrs(tree.Class("contact")), items...)
	}

	return tree.El("header", tree.Attrs(tree.Class("easycv-header")),
		tree.El("div", nil,
			tree.El("h1", nil, tree.Text(h.Name)),
			tagline(h.Tags),
		),
		contacts,
	)
}

func tagline(tags []string) tree.Node {
	if len(tags) == 0 {
		return tree.Fragment()
	}
	children := make([]tree.Node, 0, 2*len(tags))
	for i, tag := range tags {
		children = append(children, tree.El("span", nil, tree.Text(tag)))
		if i < len(tags)-1 {
			children = append(children, tree.El("br", nil))
		}
	}
	return tree.El("p", tree.Attrs(tree.Class("tagline")), children...)
}

func contactItem(e contact.Entry) tree.Node {
	var icon tree.Node
	if e.Icon != nil && e.Icon.Kind == contact.IconFontAwesome {
		icon = tree.El("span", tree.Attrs(
			tree.Class("contact-icon", "fa-fw", e.Icon.Token),
			tree.A("aria-hidden", "true"),
		))
	}

	display := e.DisplayValue
	if display == "" {
		display = e.Value
	}

	var value tree.Node
	if e.Href != "" {
		newTab := e.OpenInNewTab != nil && *e.OpenInNewTab
		value = tree.El("a", tree.Attrs(
			tree.A("href", e.Href),
			tree.If(newTab, "target", "_blank"),
			tree.If(newTab, "rel", "noreferrer"),
		), tree.Text(display))
	} else {
		value = tree.El("span", nil, tree.Text(display))
	}

	return tree.El("div", tree.Attrs(
		tree.Class("contact-item"),
		tree.A("data-contact", e.Key),
		tree.If(e.Label != "", "aria-label", e.Label),
	), icon, value)
}
