// Package dom is the live surface rendered CV is mounted on: XHTML document
// held in etree with minimal event dispatch and print hooks.
package dom

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"golang.org/x/text/language"
)

// MediaQuery observes print context.
type MediaQuery interface {
	Matches() bool
	// AddListener registers fn to be called on every change, returned function
	// removes it.
	AddListener(fn func(matches bool)) (remove func())
}

// PageOptions describe page skeleton.
type PageOptions struct {
	Language   language.Tag
	Title      string
	Stylesheet []byte
	// MountID creates empty div with this id in body when set.
	MountID string
	// NoPrintMedia emulates platforms which cannot observe print context.
	NoPrintMedia bool
	// OnPrint and OnScroll are invoked by Print and ScrollToTop.
	OnPrint  func()
	OnScroll func()
}

// Page is a single XHTML document. Tree mutations triggered by events are
// serialized through Dispatch.
type Page struct {
	mu sync.Mutex

	doc   *etree.Document
	html  *etree.Element
	head  *etree.Element
	title *etree.Element
	body  *etree.Element

	handlers map[*etree.Element][]func()
	media    *printMedia
	onPrint  func()
	onScroll func()

	prints, scrolls int
}

func NewPage(opts PageOptions) *Page {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	if opts.Language != language.Und {
		html.CreateAttr("lang", opts.Language.String())
		html.CreateAttr("xml:lang", opts.Language.String())
	}

	head := html.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")
	viewport := head.CreateElement("meta")
	viewport.CreateAttr("name", "viewport")
	viewport.CreateAttr("content", "width=device-width, initial-scale=1")

	title := head.CreateElement("title")
	title.SetText(opts.Title)

	if len(opts.Stylesheet) > 0 {
		style := head.CreateElement("style")
		style.CreateAttr("type", "text/css")
		style.SetText(string(opts.Stylesheet))
	}

	body := html.CreateElement("body")
	if opts.MountID != "" {
		mount := body.CreateElement("div")
		mount.CreateAttr("id", opts.MountID)
	}

	p := &Page{
		doc:      doc,
		html:     html,
		head:     head,
		title:    title,
		body:     body,
		handlers: make(map[*etree.Element][]func()),
		onPrint:  opts.OnPrint,
		onScroll: opts.OnScroll,
	}
	if !opts.NoPrintMedia {
		p.media = &printMedia{}
	}
	return p
}

func (p *Page) Document() *etree.Document {
	return p.doc
}

func (p *Page) Body() *etree.Element {
	return p.body
}

func (p *Page) Head() *etree.Element {
	return p.head
}

func (p *Page) Title() string {
	return p.title.Text()
}

func (p *Page) SetTitle(title string) {
	p.title.SetText(title)
}

// Find resolves lookup key. "#name" selects element by id anywhere in the
// document, anything else is treated as etree path relative to the document.
func (p *Page) Find(key string) ([]*etree.Element, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("empty lookup key")
	}
	if id, ok := strings.CutPrefix(key, "#"); ok {
		if strings.ContainsAny(id, "'[]/ ") {
			return nil, fmt.Errorf("malformed id in lookup key %q", key)
		}
		key = "//*[@id='" + id + "']"
	}
	path, err := etree.CompilePath(key)
	if err != nil {
		return nil, fmt.Errorf("bad lookup key %q: %w", key, err)
	}
	return p.doc.FindElementsPath(path), nil
}

// Contains reports whether element is attached to this page.
func (p *Page) Contains(el *etree.Element) bool {
	for e := el; e != nil; e = e.Parent() {
		if e == p.html {
			return true
		}
	}
	return false
}

// On binds activation handler to element.
func (p *Page) On(el *etree.Element, handler func()) {
	p.handlers[el] = append(p.handlers[el], handler)
}

// Forget drops handlers bound to element and all its descendants.
func (p *Page) Forget(el *etree.Element) {
	delete(p.handlers, el)
	for _, c := range el.ChildElements() {
		p.Forget(c)
	}
}

// Handlers returns number of elements with bound handlers.
func (p *Page) Handlers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

// Click emulates user activation of element. Returns false when nothing is
// bound to it.
func (p *Page) Click(el *etree.Element) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	handlers := slices.Clone(p.handlers[el])
	for _, h := range handlers {
		h()
	}
	return len(handlers) > 0
}

// Dispatch runs fn under page lock.
func (p *Page) Dispatch(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

// Print enters print context. Page stays in it until EndPrint.
func (p *Page) Print() {
	p.prints++
	if p.media != nil {
		p.media.set(true)
	}
	if p.onPrint != nil {
		p.onPrint()
	}
}

// EndPrint leaves print context notifying print media listeners.
func (p *Page) EndPrint() {
	p.Dispatch(func() {
		if p.media != nil {
			p.media.set(false)
		}
	})
}

// Prints returns how many times printing was requested.
func (p *Page) Prints() int {
	return p.prints
}

func (p *Page) ScrollToTop() {
	p.scrolls++
	if p.onScroll != nil {
		p.onScroll()
	}
}

func (p *Page) Scrolls() int {
	return p.scrolls
}

// PrintMedia returns nil when page was created without print media support.
func (p *Page) PrintMedia() MediaQuery {
	if p.media == nil {
		return nil
	}
	return p.media
}

// WriteTo serializes page as indented XHTML.
func (p *Page) WriteTo(w io.Writer) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc := p.doc.Copy()
	doc.Indent(2)
	return doc.WriteTo(w)
}

func (p *Page) String() string {
	var sb strings.Builder
	if _, err := p.WriteTo(&sb); err != nil {
		return ""
	}
	return sb.String()
}

type printMedia struct {
	matches   bool
	listeners map[int]func(bool)
	next      int
}

func (m *printMedia) Matches() bool {
	return m.matches
}

func (m *printMedia) AddListener(fn func(bool)) func() {
	if m.listeners == nil {
		m.listeners = make(map[int]func(bool))
	}
	id := m.next
	m.next++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

func (m *printMedia) set(matches bool) {
	if m.matches == matches {
		return
	}
	m.matches = matches

	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		// listener may have been removed by previous one
		if fn, ok := m.listeners[id]; ok {
			fn(matches)
		}
	}
}
