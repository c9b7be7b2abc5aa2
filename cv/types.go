// Package cv defines the curriculum vitae document model consumed by the
// renderer. Values are produced once by the loader and never modified by the
// rendering code.
package cv

import (
	"strings"
)

// CellKind discriminates cell content.
type CellKind int

const (
	CellNone CellKind = iota
	CellText
	CellHTML
)

// Cell is a single table value or meta line, either plain text or raw
// markup. Zero value is an absent cell.
type Cell struct {
	Kind CellKind
	Text string
	HTML string
}

// MetaLine is a line of text rendered under section or subsection heading.
type MetaLine = Cell

func Text(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

func HTML(s string) Cell {
	return Cell{Kind: CellHTML, HTML: s}
}

// HasContent reports whether cell should produce any visible output.
func (c Cell) HasContent() bool {
	switch c.Kind {
	case CellText:
		return strings.TrimSpace(c.Text) != ""
	case CellHTML:
		return strings.TrimSpace(c.HTML) != ""
	default:
		return false
	}
}

func (c Cell) IsHTML() bool {
	return c.Kind == CellHTML
}

func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellHTML:
		return c.HTML
	default:
		return ""
	}
}

// TableEntry is one logical row group of a section table: primary content
// lines, optional secondary (meta) column and optional hanging index label
// aligned to the first row.
type TableEntry struct {
	Content []Cell
	Meta    []Cell
	Index   Cell
}

// Subsection is a titled group nested in a Section.
type Subsection struct {
	ID          string
	Title       string
	Meta        []MetaLine
	Entries     []TableEntry
	Condensed   bool
	MetaOnRight *bool
}

// ResolveMetaOnRight returns explicit subsection setting or inherited value.
func (s *Subsection) ResolveMetaOnRight(inherited bool) bool {
	return resolveFlag(s.MetaOnRight, inherited)
}

// Section is a top level part of the document.
type Section struct {
	ID          string
	Title       string
	Meta        []MetaLine
	Entries     []TableEntry
	Subsections []Subsection
	Condensed   bool
	MetaOnRight *bool
}

// ResolveMetaOnRight returns explicit section setting or inherited value.
func (s *Section) ResolveMetaOnRight(inherited bool) bool {
	return resolveFlag(s.MetaOnRight, inherited)
}

func resolveFlag(own *bool, inherited bool) bool {
	if own != nil {
		return *own
	}
	return inherited
}

// Header is the top block of the document.
type Header struct {
	Name    string
	Tags    []string
	Contact Contact
}

// Document is a complete parsed CV.
type Document struct {
	Header            Header
	Sections          []Section
	MetaOnRight       bool
	EnableThemeToggle bool
	PrintAsScreen     bool
}

// New returns an empty document with defaults applied.
func New() *Document {
	return &Document{EnableThemeToggle: true}
}

// Bool is a convenience for optional flags.
func Bool(v bool) *bool {
	return &v
}
