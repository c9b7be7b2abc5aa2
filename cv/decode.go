package cv

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v3"
)

// Documents come from hand edited YAML, so decoding is lenient: wrong shapes
// degrade to empty values instead of failing the whole document. Only
// syntactically broken YAML is an error.

// Load decodes a single YAML document.
func Load(r io.Reader) (*Document, error) {
	doc := New()
	if err := yaml.NewDecoder(r).Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}
	return doc, nil
}

// LoadFile decodes YAML document from file.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (d *Document) UnmarshalYAML(n *yaml.Node) error {
	f := fields(n)

	*d = Document{
		MetaOnRight:       truthy(f["meta-on-right"], false),
		EnableThemeToggle: truthy(f["enable-dark-mode"], true),
		PrintAsScreen:     truthy(f["print-as-screen"], false),
	}
	if h := f["header"]; h != nil {
		if err := h.Decode(&d.Header); err != nil {
			return err
		}
	}
	sections, err := decodeSeq[Section](f["sections"])
	if err != nil {
		return err
	}
	d.Sections = sections
	return nil
}

func (h *Header) UnmarshalYAML(n *yaml.Node) error {
	f := fields(n)

	*h = Header{Name: scalarString(f["name"])}
	if tags := f["tags"]; tags != nil && tags.Kind == yaml.SequenceNode {
		for _, t := range tags.Content {
			if c := cellFromNode(t); c.Kind == CellText {
				h.Tags = append(h.Tags, c.Text)
			}
		}
	}
	if c := f["contact"]; c != nil {
		if err := c.Decode(&h.Contact); err != nil {
			return err
		}
	}
	return nil
}

func (c *Contact) UnmarshalYAML(n *yaml.Node) error {
	*c = Contact{}
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		c.set(n.Content[i].Value, rawContactFromNode(n.Content[i+1]))
	}
	return nil
}

func rawContactFromNode(n *yaml.Node) RawContact {
	n = deref(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			return ContactString(n.Value)
		}
	case yaml.MappingNode:
		f := fields(n)
		rc := RawContact{
			Kind:    RawObject,
			Value:   stringOnly(f["value"]),
			Display: stringOnly(f["display"]),
			Href:    stringOnly(f["href"]),
			Icon:    stringOnly(f["icon"]),
			Label:   stringOnly(f["label"]),
		}
		if v := f["newTab"]; v != nil && v.ShortTag() == "!!bool" {
			if b, err := strconv.ParseBool(v.Value); err == nil {
				rc.NewTab = &b
			}
		}
		return rc
	}
	return RawContact{}
}

func (s *Section) UnmarshalYAML(n *yaml.Node) error {
	f := fields(n)

	*s = Section{
		ID:          scalarString(f["id"]),
		Title:       scalarString(f["title"]),
		Condensed:   truthy(f["condensed"], false),
		MetaOnRight: optionalFlag(f["meta-on-right"]),
	}
	var err error
	if s.Meta, err = decodeSeq[MetaLine](f["meta"]); err != nil {
		return err
	}
	if s.Entries, err = decodeSeq[TableEntry](f["entries"]); err != nil {
		return err
	}
	if s.Subsections, err = decodeSeq[Subsection](f["subsections"]); err != nil {
		return err
	}
	return nil
}

func (s *Subsection) UnmarshalYAML(n *yaml.Node) error {
	f := fields(n)

	*s = Subsection{
		ID:          scalarString(f["id"]),
		Title:       scalarString(f["title"]),
		Condensed:   truthy(f["condensed"], false),
		MetaOnRight: optionalFlag(f["meta-on-right"]),
	}
	var err error
	if s.Meta, err = decodeSeq[MetaLine](f["meta"]); err != nil {
		return err
	}
	if s.Entries, err = decodeSeq[TableEntry](f["entries"]); err != nil {
		return err
	}
	return nil
}

func (e *TableEntry) UnmarshalYAML(n *yaml.Node) error {
	f := fields(n)

	// left/right/hanging were used by earlier revisions of the document format
	pick := func(name, legacy string) *yaml.Node {
		if v, ok := f[name]; ok {
			return v
		}
		return f[legacy]
	}

	*e = TableEntry{}
	var err error
	if e.Content, err = decodeSeq[Cell](pick("content", "left")); err != nil {
		return err
	}
	if e.Meta, err = decodeSeq[Cell](pick("meta", "right")); err != nil {
		return err
	}
	if idx := pick("index", "hanging"); idx != nil {
		e.Index = cellFromNode(idx)
	}
	return nil
}

func (c *Cell) UnmarshalYAML(n *yaml.Node) error {
	*c = cellFromNode(n)
	return nil
}

func cellFromNode(n *yaml.Node) Cell {
	n = deref(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return Cell{}
		}
		return Text(n.Value)
	case yaml.MappingNode:
		if v := fields(n)["html"]; v != nil && v.ShortTag() == "!!str" {
			return HTML(v.Value)
		}
	}
	return Cell{}
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return deref(n.Content[0])
	}
	return n
}

// fields indexes mapping node by key, later keys win.
func fields(n *yaml.Node) map[string]*yaml.Node {
	out := make(map[string]*yaml.Node)
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		out[n.Content[i].Value] = deref(n.Content[i+1])
	}
	return out
}

func decodeSeq[T any](n *yaml.Node) ([]T, error) {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, nil
	}
	out := make([]T, 0, len(n.Content))
	for _, item := range n.Content {
		var v T
		if err := item.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// scalarString returns value of any non null scalar.
func scalarString(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return ""
	}
	return n.Value
}

func stringOnly(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return ""
	}
	return n.Value
}

// truthy interprets flag value loosely, absent and null yield def.
func truthy(n *yaml.Node, def bool) bool {
	if n == nil {
		return def
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return def
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return def
			}
			return b
		case "!!int", "!!float":
			var v any
			if err := n.Decode(&v); err != nil {
				return false
			}
			switch x := v.(type) {
			case int:
				return x != 0
			case int64:
				return x != 0
			case uint64:
				return x != 0
			case float64:
				return x != 0 && !math.IsNaN(x)
			}
			return false
		default:
			return n.Value != ""
		}
	default:
		return true
	}
}

func optionalFlag(n *yaml.Node) *bool {
	if n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null") {
		return nil
	}
	return Bool(truthy(n, false))
}
