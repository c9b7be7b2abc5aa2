package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"golang.org/x/text/language"

	"easycv/tree"
)

func TestNewPage(t *testing.T) {
	p := NewPage(PageOptions{
		Language:   language.English,
		Title:      "Resume",
		Stylesheet: []byte("body { margin: 0; }"),
		MountID:    "cv",
	})

	if got := p.Title(); got != "Resume" {
		t.Errorf("Title() = %q", got)
	}
	p.SetTitle("Other")
	if got := p.Title(); got != "Other" {
		t.Errorf("Title() after SetTitle = %q", got)
	}

	out := p.String()
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<html xmlns="http://www.w3.org/1999/xhtml" lang="en" xml:lang="en">`,
		`<title>Other</title>`,
		`body { margin: 0; }`,
		`<div id="cv"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page output missing %q:\n%s", want, out)
		}
	}
}

func TestFind(t *testing.T) {
	p := NewPage(PageOptions{MountID: "cv"})
	extra := p.Body().CreateElement("section")
	extra.CreateAttr("class", "other")

	found, err := p.Find("#cv")
	if err != nil {
		t.Fatalf("Find(#cv): %v", err)
	}
	if len(found) != 1 || found[0].SelectAttrValue("id", "") != "cv" {
		t.Fatalf("Find(#cv) = %v", found)
	}

	found, err = p.Find("//section[@class='other']")
	if err != nil || len(found) != 1 || found[0] != extra {
		t.Errorf("Find(path) = %v, %v", found, err)
	}

	found, err = p.Find("#missing")
	if err != nil || len(found) != 0 {
		t.Errorf("Find(#missing) = %v, %v", found, err)
	}

	for _, key := range []string{"", "  ", "#a'b", "//a[@x"} {
		if _, err := p.Find(key); err == nil {
			t.Errorf("Find(%q) expected error", key)
		}
	}
}

func TestContains(t *testing.T) {
	p := NewPage(PageOptions{})
	inside := p.Body().CreateElement("p")
	detached := etree.NewElement("p")
	if !p.Contains(inside) {
		t.Error("attached element not reported")
	}
	if p.Contains(detached) {
		t.Error("detached element reported")
	}
}

func TestHandlers(t *testing.T) {
	p := NewPage(PageOptions{})
	root := p.Body().CreateElement("div")
	button := root.CreateElement("button")

	clicks := 0
	p.On(button, func() { clicks++ })
	if !p.Click(button) || clicks != 1 {
		t.Fatalf("click not delivered, clicks=%d", clicks)
	}
	if p.Click(root) {
		t.Error("click on element without handler reported as handled")
	}

	p.Forget(root)
	if p.Click(button) {
		t.Error("handler survived Forget of ancestor")
	}
	if p.Handlers() != 0 {
		t.Errorf("Handlers() = %d", p.Handlers())
	}
}

func TestPrintMedia(t *testing.T) {
	p := NewPage(PageOptions{})
	mq := p.PrintMedia()
	if mq == nil {
		t.Fatal("print media missing")
	}

	var events []bool
	var removeSecond func()
	mq.AddListener(func(m bool) {
		events = append(events, m)
		if !m {
			removeSecond()
		}
	})
	removeSecond = mq.AddListener(func(m bool) { events = append(events, m) })

	p.Print()
	if !mq.Matches() {
		t.Error("print context not entered")
	}
	p.EndPrint()
	if mq.Matches() {
		t.Error("print context not left")
	}
	// true, true from both listeners, false only from the first one
	if len(events) != 3 || !events[0] || !events[1] || events[2] {
		t.Errorf("events = %v", events)
	}
	if p.Prints() != 1 {
		t.Errorf("Prints() = %d", p.Prints())
	}

	if NewPage(PageOptions{NoPrintMedia: true}).PrintMedia() != nil {
		t.Error("print media present when disabled")
	}
}

func TestClassHelpers(t *testing.T) {
	el := etree.NewElement("div")
	AddClass(el, "a")
	AddClass(el, "b")
	AddClass(el, "a")
	if got := el.SelectAttrValue("class", ""); got != "a b" {
		t.Errorf("class = %q", got)
	}
	if !HasClass(el, "b") || HasClass(el, "c") {
		t.Error("HasClass mismatch")
	}
	RemoveClass(el, "a")
	if got := el.SelectAttrValue("class", ""); got != "b" {
		t.Errorf("class = %q", got)
	}
	RemoveClass(el, "b")
	if el.SelectAttr("class") != nil {
		t.Error("empty class attribute left behind")
	}
}

func TestMaterialize(t *testing.T) {
	n := tree.El("div", tree.Attrs(tree.Class("outer"), tree.A("id", "x")),
		tree.Text("hello "),
		tree.Fragment(tree.El("b", nil, tree.Text("world"))),
		tree.Fragment(),
		tree.El("span", nil, tree.Raw("<em>rich</em> text<br>")),
	)
	el, err := Materialize(n)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	doc := etree.NewDocument()
	doc.SetRoot(el)
	got, err := doc.WriteToString()
	if err != nil {
		t.Fatal(err)
	}
	want := `<div class="outer" id="x">hello <b>world</b><span><em>rich</em> text<br/></span></div>`
	if got != want {
		t.Errorf("Materialize:\n got %s\nwant %s", got, want)
	}
}

func TestMaterialize_NotElement(t *testing.T) {
	for _, n := range []tree.Node{tree.Text("x"), tree.Fragment(), tree.Raw("<b>x</b>")} {
		if _, err := Materialize(n); !errors.Is(err, ErrNotElement) {
			t.Errorf("Materialize(%s) error = %v", n.Kind, err)
		}
	}
}

func TestRawHTMLAttributes(t *testing.T) {
	parent := etree.NewElement("div")
	if err := AppendTo(parent, tree.Raw(`<a href="https://x.org" data-x="1" 1bad="y">link</a>`)); err != nil {
		t.Fatal(err)
	}
	a := parent.SelectElement("a")
	if a == nil {
		t.Fatal("anchor not parsed")
	}
	if a.SelectAttrValue("href", "") != "https://x.org" || a.SelectAttrValue("data-x", "") != "1" {
		t.Errorf("attributes lost: %v", a.Attr)
	}
	if a.SelectAttr("1bad") != nil {
		t.Error("invalid attribute name kept")
	}
}

func TestClear(t *testing.T) {
	el := etree.NewElement("div")
	el.CreateElement("a")
	el.CreateText("x")
	el.CreateElement("b")
	Clear(el)
	if len(el.Child) != 0 {
		t.Errorf("children left: %d", len(el.Child))
	}
}
