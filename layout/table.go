// Package layout computes row structure of CV tables: how many rows an entry
// occupies, which columns are present and how content cells are merged.
package layout

import (
	"strconv"

	"easycv/cv"
	"easycv/tree"
)

// CellRole tells which column planned cell belongs to.
type CellRole int

const (
	IndexCell CellRole = iota
	MetaCell
	ContentCell
	// StackedCell is condensed content: single cell spanning all rows of the
	// entry with one visual line per content item.
	StackedCell
)

// Line is one line of stacked cell.
type Line struct {
	Value  cv.Cell
	Header bool
}

// Cell is a planned table cell.
type Cell struct {
	Role     CellRole
	Value    cv.Cell
	Emphasis bool
	// meta column placed after content column
	Right bool
	// StackedCell only
	RowSpan int
	Lines   []Line
}

// Row is a planned table row.
type Row struct {
	Start     bool
	Condensed bool
	Cells     []Cell
}

// Plan is the layout of a single table entry.
type Plan struct {
	Rows []Row
}

func (p Plan) Empty() bool {
	return len(p.Rows) == 0
}

// RowCount returns number of rows entry needs, 0 means entry renders nothing.
func RowCount(e cv.TableEntry) int {
	rows := len(e.Content)
	if hasMetaColumn(e) {
		rows = max(rows, len(e.Meta))
	}
	if e.Index.HasContent() {
		rows = max(rows, 1)
	}
	return rows
}

func hasMetaColumn(e cv.TableEntry) bool {
	for _, m := range e.Meta {
		if m.HasContent() {
			return true
		}
	}
	return false
}

func at(cells []cv.Cell, i int) cv.Cell {
	if i < len(cells) {
		return cells[i]
	}
	return cv.Cell{}
}

// Arrange plans rows for the entry. Index column (when present) carries value
// in the first row only, meta column is placed before content unless
// metaOnRight is set, condensed mode merges content into one cell spanning
// every row.
func Arrange(e cv.TableEntry, condensed, metaOnRight bool) Plan {
	rowCount := RowCount(e)
	if rowCount == 0 {
		return Plan{}
	}

	withIndex := e.Index.HasContent()
	withMeta := hasMetaColumn(e)

	metaCell := func(r int) Cell {
		c := Cell{Role: MetaCell, Right: metaOnRight}
		if v := at(e.Meta, r); v.HasContent() {
			c.Value = v
		}
		return c
	}

	rows := make([]Row, 0, rowCount)
	for r := range rowCount {
		row := Row{Start: r == 0, Condensed: condensed}

		if withIndex {
			c := Cell{Role: IndexCell}
			if r == 0 {
				c.Value = e.Index
			}
			row.Cells = append(row.Cells, c)
		}

		if withMeta && !metaOnRight {
			row.Cells = append(row.Cells, metaCell(r))
		}

		if condensed {
			if r == 0 {
				row.Cells = append(row.Cells, stacked(e.Content, rowCount))
			}
		} else {
			v := at(e.Content, r)
			row.Cells = append(row.Cells, Cell{
				Role:     ContentCell,
				Value:    v,
				Emphasis: r == 0 && v.HasContent(),
			})
		}

		if withMeta && metaOnRight {
			row.Cells = append(row.Cells, metaCell(r))
		}

		rows = append(rows, row)
	}
	return Plan{Rows: rows}
}

func stacked(content []cv.Cell, rowCount int) Cell {
	c := Cell{Role: StackedCell, RowSpan: rowCount}
	for i, v := range content {
		if !v.HasContent() {
			continue
		}
		c.Lines = append(c.Lines, Line{Value: v, Header: i == 0})
	}
	c.Emphasis = len(c.Lines) > 0 && c.Lines[0].Header
	return c
}

// Nodes renders planned rows as tr elements.
func (p Plan) Nodes() []tree.Node {
	out := make([]tree.Node, 0, len(p.Rows))
	for _, row := range p.Rows {
		cells := make([]tree.Node, 0, len(row.Cells))
		for _, c := range row.Cells {
			cells = append(cells, c.node())
		}
		start := ""
		if row.Start {
			start = "entry-start"
		}
		condensed := ""
		if row.Condensed {
			condensed = "condensed-row"
		}
		out = append(out, tree.El("tr", tree.Attrs(tree.Class(start, condensed)), cells...))
	}
	return out
}

func (c Cell) node() tree.Node {
	switch c.Role {
	case IndexCell:
		return tree.El("td", tree.Attrs(tree.Class("index-cell")), Value(c.Value, false))
	case MetaCell:
		right := ""
		if c.Right {
			right = "meta-cell-right"
		}
		return tree.El("td", tree.Attrs(tree.Class("meta-cell", right)), Value(c.Value, false))
	case StackedCell:
		lines := make([]tree.Node, 0, len(c.Lines))
		for _, l := range c.Lines {
			class := "content-entry-span"
			if l.Header {
				class = "content-header-span"
			}
			lines = append(lines, tree.El("span", tree.Attrs(tree.Class(class)), Value(l.Value, l.Header)))
		}
		return tree.El("td", tree.Attrs(tree.Class("content-cell"), tree.A("rowspan", strconv.Itoa(c.RowSpan))), lines...)
	default:
		class := ""
		if c.Emphasis {
			class = "content-header"
		}
		return tree.El("td", tree.Attrs(tree.Class(class)), Value(c.Value, c.Emphasis))
	}
}

// Value renders cell content, strong applies to plain text only. Cells
// without content produce empty fragment.
func Value(c cv.Cell, strong bool) tree.Node {
	if !c.HasContent() {
		return tree.Fragment()
	}
	if c.IsHTML() {
		return tree.El("span", nil, tree.Raw(c.HTML))
	}
	if strong {
		return tree.El("strong", nil, tree.Text(c.Text))
	}
	return tree.El("span", nil, tree.Text(c.Text))
}

// Table renders entries of one container. Entries which need no rows
// contribute nothing.
func Table(entries []cv.TableEntry, condensed, metaOnRight bool) tree.Node {
	var rows []tree.Node
	for _, e := range entries {
		rows = append(rows, Arrange(e, condensed, metaOnRight).Nodes()...)
	}
	return tree.El("table", tree.Attrs(tree.Class("easycv-table")),
		tree.El("tbody", nil, rows...),
	)
}
