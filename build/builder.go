// Package build walks CV document and produces description of the rendered
// page. It makes no decisions about table rows itself, those belong to layout.
package build

import (
	"go.uber.org/zap"

	"easycv/common"
	"easycv/cv"
	"easycv/interact"
	"easycv/tree"
)

// Settings are per render values which do not come from the document.
type Settings struct {
	// PrintID is render scoped identifier used for print isolation.
	PrintID string
	// Actions requests floating page controls.
	Actions bool
	// Theme is used to draw initial state of theme toggle.
	Theme common.Theme
}

type Builder struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log.Named("build")}
}

// Document builds complete tree for the document. Root is always a single
// container element.
func (b *Builder) Document(doc *cv.Document, s Settings) tree.Node {
	if doc == nil {
		doc = cv.New()
	}

	sections := make([]tree.Node, 0, len(doc.Sections))
	for i := range doc.Sections {
		sections = append(sections, b.Section(&doc.Sections[i], doc.MetaOnRight))
	}

	var actions tree.Node
	if s.Actions {
		actions = interact.Controls(s.Theme, doc.EnableThemeToggle)
	}

	b.log.Debug("Document tree built",
		zap.String("print_id", s.PrintID),
		zap.Int("sections", len(doc.Sections)),
		zap.Bool("meta_on_right", doc.MetaOnRight),
		zap.Bool("actions", s.Actions))

	return tree.El("div",
		tree.Attrs(
			tree.Class(interact.ContainerClass),
			tree.If(s.PrintID != "", interact.PrintIDAttr, s.PrintID),
			tree.If(doc.PrintAsScreen, "data-print-as-screen", "true"),
		),
		tree.El("div", tree.Attrs(tree.Class("easycv-page")),
			b.Header(&doc.Header),
			tree.El("main", nil, sections...),
		),
		attribution(),
		actions,
	)
}

func attribution() tree.Node {
	link := func(href, text string) tree.Node {
		return tree.El("a", tree.Attrs(tree.A("href", href), tree.A("target", "_blank"), tree.A("rel", "noreferrer")), tree.Text(text))
	}
	return tree.El("footer", tree.Attrs(tree.Class("template-attribution")),
		tree.Text("CV template provided by "),
		link("https://sarchlab.org/syifan", "Yifan Sun"),
		tree.Text(". Template can be found at "),
		link("https://github.com/syifan/easycv", "https://github.com/syifan/easycv"),
		tree.Text("."),
	)
}
