package build

import (
	"go.uber.org/zap"

	"easycv/cv"
	"easycv/layout"
	"easycv/tree"
)

// Section renders heading, meta lines, entries table and subsections in that
// order. Meta placement is resolved against inherited value and handed down
// to subsections, condensed flag is never inherited.
func (b *Builder) Section(s *cv.Section, inheritedMetaOnRight bool) tree.Node {
	metaOnRight := s.ResolveMetaOnRight(inheritedMetaOnRight)

	children := []tree.Node{
		tree.El("header", tree.Attrs(tree.Class("section-header")),
			tree.El("h2", nil, tree.Text(s.Title)),
		),
		metaLines(s.Meta),
		entriesTable(s.Entries, s.Condensed, metaOnRight),
	}
	for i := range s.Subsections {
		children = append(children, b.Subsection(&s.Subsections[i], metaOnRight))
	}

	b.log.Debug("Section",
		zap.String("id", s.ID),
		zap.String("title", s.Title),
		zap.Int("entries", len(s.Entries)),
		zap.Int("subsections", len(s.Subsections)),
		zap.Bool("condensed", s.Condensed),
		zap.Bool("meta_on_right", metaOnRight))

	return tree.El("section",
		tree.Attrs(
			tree.Class("easycv-section"),
			tree.If(s.ID != "", "id", s.ID),
			tree.If(s.Title != "", "aria-label", s.Title),
		),
		children...,
	)
}

func (b *Builder) Subsection(s *cv.Subsection, inheritedMetaOnRight bool) tree.Node {
	metaOnRight := s.ResolveMetaOnRight(inheritedMetaOnRight)

	return tree.El("div",
		tree.Attrs(
			tree.Class("easycv-subsection"),
			tree.If(s.ID != "", "id", s.ID),
		),
		tree.El("h3", nil, tree.Text(s.Title)),
		metaLines(s.Meta),
		entriesTable(s.Entries, s.Condensed, metaOnRight),
	)
}

func metaLines(lines []cv.MetaLine) tree.Node {
	nodes := make([]tree.Node, 0, len(lines))
	for _, l := range lines {
		switch l.Kind {
		case cv.CellHTML:
			nodes = append(nodes, tree.El("p", tree.Attrs(tree.Class("list-heading")), tree.Raw(l.HTML)))
		case cv.CellText:
			nodes = append(nodes, tree.El("p", tree.Attrs(tree.Class("list-heading")), tree.Text(l.Text)))
		}
	}
	return tree.Fragment(nodes...)
}

func entriesTable(entries []cv.TableEntry, condensed, metaOnRight bool) tree.Node {
	if len(entries) == 0 {
		return tree.Fragment()
	}
	return layout.Table(entries, condensed, metaOnRight)
}
