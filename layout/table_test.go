package layout

import (
	"testing"

	"easycv/cv"
	"easycv/tree"
)

func texts(values ...string) []cv.Cell {
	out := make([]cv.Cell, 0, len(values))
	for _, v := range values {
		out = append(out, cv.Text(v))
	}
	return out
}

func TestRowCount(t *testing.T) {
	tests := []struct {
		name  string
		entry cv.TableEntry
		want  int
	}{
		{"empty", cv.TableEntry{}, 0},
		{"content only", cv.TableEntry{Content: texts("a", "b", "c")}, 3},
		{"longer meta", cv.TableEntry{Content: texts("a"), Meta: texts("1", "2")}, 2},
		{"blank meta ignored", cv.TableEntry{Content: texts("a"), Meta: texts(" ", "", "")}, 1},
		{"index only", cv.TableEntry{Index: cv.Text("*")}, 1},
		{"blank index ignored", cv.TableEntry{Index: cv.Text("  ")}, 0},
		{"html meta", cv.TableEntry{Meta: []cv.Cell{{}, cv.HTML("<i>x</i>")}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RowCount(tt.entry); got != tt.want {
				t.Errorf("RowCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestArrange_Empty(t *testing.T) {
	p := Arrange(cv.TableEntry{Content: []cv.Cell{}, Meta: []cv.Cell{}}, true, true)
	if !p.Empty() {
		t.Errorf("expected empty plan, got %d rows", len(p.Rows))
	}
	if n := len(p.Nodes()); n != 0 {
		t.Errorf("Nodes() = %d, want 0", n)
	}
}

func TestArrange_PlainRows(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		content := make([]cv.Cell, n)
		for i := range content {
			content[i] = cv.Text("line")
		}
		p := Arrange(cv.TableEntry{Content: content}, false, false)
		if len(p.Rows) != n {
			t.Fatalf("rows = %d, want %d", len(p.Rows), n)
		}
		for r, row := range p.Rows {
			if row.Start != (r == 0) {
				t.Errorf("row %d Start = %v", r, row.Start)
			}
			if len(row.Cells) != 1 || row.Cells[0].Role != ContentCell {
				t.Fatalf("row %d cells = %+v", r, row.Cells)
			}
			if row.Cells[0].Emphasis != (r == 0) {
				t.Errorf("row %d emphasis = %v", r, row.Cells[0].Emphasis)
			}
		}
	}
}

func TestArrange_Condensed(t *testing.T) {
	p := Arrange(cv.TableEntry{Content: texts("A", "B", "C")}, true, false)
	if len(p.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(p.Rows))
	}

	var contentCells []Cell
	for _, row := range p.Rows {
		if !row.Condensed {
			t.Error("row should be marked condensed")
		}
		contentCells = append(contentCells, row.Cells...)
	}
	if len(contentCells) != 1 {
		t.Fatalf("content cells = %d, want exactly 1", len(contentCells))
	}
	c := contentCells[0]
	if c.Role != StackedCell || c.RowSpan != 3 || len(c.Lines) != 3 {
		t.Fatalf("stacked cell = %+v", c)
	}
	if !c.Lines[0].Header || c.Lines[1].Header || c.Lines[2].Header {
		t.Error("only first line should be header")
	}

	nodes := p.Nodes()
	td, ok := nodes[0].Find(tree.ByTag("td"))
	if !ok {
		t.Fatal("no td in first row")
	}
	if v, _ := td.Attr("rowspan"); v != "3" {
		t.Errorf("rowspan = %q, want 3", v)
	}
	if got := len(td.FindAll(tree.ByTag("strong"))); got != 1 {
		t.Errorf("strong count = %d, want 1", got)
	}
	if got := len(td.FindAll(tree.ByClass("content-entry-span"))); got != 2 {
		t.Errorf("entry spans = %d, want 2", got)
	}
	for _, row := range nodes[1:] {
		if len(row.Children) != 0 {
			t.Errorf("continuation row should have no cells, got %d", len(row.Children))
		}
	}
}

func TestArrange_CondensedSkipsEmptyLines(t *testing.T) {
	p := Arrange(cv.TableEntry{Content: []cv.Cell{cv.Text(""), cv.Text("B"), {}}}, true, false)
	c := p.Rows[0].Cells[0]
	if len(c.Lines) != 1 || c.Lines[0].Header {
		t.Errorf("lines = %+v, want single non header line", c.Lines)
	}
	if c.RowSpan != 3 {
		t.Errorf("rowspan = %d, want 3", c.RowSpan)
	}
}

func TestArrange_MetaPlacement(t *testing.T) {
	e := cv.TableEntry{Content: texts("Title"), Meta: texts("2020", "Remote")}

	roles := func(row Row) []CellRole {
		out := make([]CellRole, 0, len(row.Cells))
		for _, c := range row.Cells {
			out = append(out, c.Role)
		}
		return out
	}

	left := Arrange(e, false, false)
	if len(left.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(left.Rows))
	}
	if got := roles(left.Rows[0]); len(got) != 2 || got[0] != MetaCell || got[1] != ContentCell {
		t.Errorf("left placement roles = %v", got)
	}

	right := Arrange(e, false, true)
	if got := roles(right.Rows[1]); len(got) != 2 || got[0] != ContentCell || got[1] != MetaCell {
		t.Errorf("right placement roles = %v", got)
	}
	if !right.Rows[1].Cells[1].Right {
		t.Error("meta cell should be flagged right")
	}
	if right.Rows[1].Cells[1].Value.Text != "Remote" {
		t.Errorf("second meta = %q", right.Rows[1].Cells[1].Value.Text)
	}
	if right.Rows[1].Cells[0].Value.HasContent() {
		t.Error("second row content should be empty")
	}

	td, _ := right.Nodes()[0].Find(tree.ByClass("meta-cell-right"))
	if !td.HasClass("meta-cell") {
		t.Error("right meta cell should keep meta-cell class")
	}
}

func TestArrange_Index(t *testing.T) {
	e := cv.TableEntry{Content: texts("a", "b"), Index: cv.HTML("<b>1</b>")}
	p := Arrange(e, false, false)

	for r, row := range p.Rows {
		if row.Cells[0].Role != IndexCell {
			t.Fatalf("row %d first cell role = %v", r, row.Cells[0].Role)
		}
		if got := row.Cells[0].Value.HasContent(); got != (r == 0) {
			t.Errorf("row %d index content = %v", r, got)
		}
	}

	nodes := p.Nodes()
	first, _ := nodes[0].Find(tree.ByClass("index-cell"))
	if first.TextContent() != "<b>1</b>" {
		t.Errorf("index cell = %q", first.TextContent())
	}
	second, _ := nodes[1].Find(tree.ByClass("index-cell"))
	if len(second.Children) != 0 {
		t.Error("index cell in continuation row must be empty")
	}
}

func TestPlanNodes_RowClasses(t *testing.T) {
	nodes := Arrange(cv.TableEntry{Content: texts("a", "b")}, false, false).Nodes()
	if v, _ := nodes[0].Attr("class"); v != "entry-start" {
		t.Errorf("first row class = %q", v)
	}
	if _, ok := nodes[1].Attr("class"); ok {
		t.Error("second row should have no class")
	}
	head, _ := nodes[0].Find(tree.ByTag("td"))
	if !head.HasClass("content-header") {
		t.Error("first content cell should be content-header")
	}
	if _, ok := head.Find(tree.ByTag("strong")); !ok {
		t.Error("first content cell should be emphasized")
	}
	if _, ok := nodes[1].Find(tree.ByTag("strong")); ok {
		t.Error("second row must not be emphasized")
	}
}

func TestValue(t *testing.T) {
	if !Value(cv.Text(" "), true).IsEmpty() {
		t.Error("blank value should render nothing")
	}
	if n := Value(cv.HTML("<i>x</i>"), true); n.Tag != "span" || n.Children[0].Kind != tree.RawHTMLNode {
		t.Errorf("html value = %+v", n)
	}
	if n := Value(cv.Text("x"), true); n.Tag != "strong" {
		t.Errorf("strong value tag = %q", n.Tag)
	}
	if n := Value(cv.Text("x"), false); n.Tag != "span" {
		t.Errorf("plain value tag = %q", n.Tag)
	}
}

func TestTable(t *testing.T) {
	table := Table([]cv.TableEntry{
		{Content: texts("a", "b")},
		{},
		{Content: texts("c")},
	}, false, false)

	if !table.HasClass("easycv-table") {
		t.Error("missing table class")
	}
	if got := len(table.FindAll(tree.ByTag("tr"))); got != 3 {
		t.Errorf("rows = %d, want 3", got)
	}
	if got := len(table.FindAll(tree.ByClass("entry-start"))); got != 2 {
		t.Errorf("entry starts = %d, want 2", got)
	}
}
